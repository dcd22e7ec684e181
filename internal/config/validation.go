package config

import (
	"errors"
	"io/fs"

	"github.com/go-playground/validator/v10"
)

// Validate checks struct tag constraints on the whole configuration.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
