package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupTimeLayout = "20060102-150405"

// newRegistryBackupTask copies the registry file into registry.backup_dir and
// keeps only the newest registry.backup_keep copies.
func newRegistryBackupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "registry_backup")
	src := deps.Registry.Path()
	dir := deps.Config.Registry.BackupDir
	keep := deps.Config.Registry.BackupKeep

	return func(ctx context.Context) error {
		prefix, ext := backupPrefix(src)
		dst := filepath.Join(dir, prefix+time.Now().Format(backupTimeLayout)+ext)

		err := copyFile(src, dst)
		if errors.Is(err, fs.ErrNotExist) {
			log.InfoContext(ctx, "Registry file does not exist yet, nothing to back up", "path", src)
			return nil
		}
		if err != nil {
			log.ErrorContext(ctx, "Registry backup failed", "error", err)
			return fmt.Errorf("backup registry: %w", err)
		}
		log.InfoContext(ctx, "Registry backed up", "path", dst)

		removed, err := pruneBackups(dir, prefix, ext, keep)
		if err != nil {
			log.WarnContext(ctx, "Failed to prune old registry backups", "error", err)
			return nil
		}
		if len(removed) > 0 {
			log.InfoContext(ctx, "Removed old registry backups", "count", len(removed))
		}
		return nil
	}
}

// backupPrefix splits "dir/group_ids.csv" into "group_ids-" and ".csv".
func backupPrefix(path string) (prefix, ext string) {
	base := filepath.Base(path)
	ext = filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "-", ext
}

// copyFile writes a copy of src to dst through a temp file so a partial copy
// never carries the final name. It fails with fs.ErrNotExist when src is missing.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".backup-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("copy registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmpName, dst)
}

// pruneBackups removes all but the newest keep backups. Backup names embed
// their timestamp, so lexical order is chronological order.
func pruneBackups(dir, prefix, ext string, keep int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var backups []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext) {
			backups = append(backups, name)
		}
	}
	if len(backups) <= keep {
		return nil, nil
	}

	sort.Strings(backups)
	stale := backups[:len(backups)-keep]

	var errs []error
	removed := make([]string, 0, len(stale))
	for _, name := range stale {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, name)
	}
	return removed, errors.Join(errs...)
}
