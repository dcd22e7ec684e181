// Package main is the entry point for the relay bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Build information injected via ldflags at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
