package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/database"
	"github.com/edgard/relaybot/internal/logger"
	"github.com/edgard/relaybot/internal/registry"
)

type fakeJournal struct {
	pruneBefore    time.Time
	pruneRemoved   int64
	maintenanceRun int
	err            error
}

func (j *fakeJournal) Ping(ctx context.Context) error { return nil }

func (j *fakeJournal) RecordDelivery(ctx context.Context, d *database.Delivery) error { return nil }

func (j *fakeJournal) RecentDeliveries(ctx context.Context, limit int) ([]database.Delivery, error) {
	return nil, nil
}

func (j *fakeJournal) PruneDeliveries(ctx context.Context, before time.Time) (int64, error) {
	j.pruneBefore = before
	return j.pruneRemoved, j.err
}

func (j *fakeJournal) RunSQLMaintenance(ctx context.Context) error {
	j.maintenanceRun++
	return j.err
}

func newDeps(t *testing.T, journal *fakeJournal) (TaskDeps, string) {
	t.Helper()
	dir := t.TempDir()
	log := logger.Discard()

	cfg := &config.Config{
		Registry: config.RegistryConfig{
			Path:       filepath.Join(dir, "group_ids.csv"),
			BackupDir:  filepath.Join(dir, "backups"),
			BackupKeep: 3,
		},
		Database: config.DatabaseConfig{Retention: 48 * time.Hour},
	}

	return TaskDeps{
		Logger:   log,
		Config:   cfg,
		Registry: registry.NewStore(cfg.Registry.Path, log),
		Journal:  journal,
	}, dir
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()
	deps, _ := newDeps(t, &fakeJournal{})

	tasks := RegisterAllTasks(deps)

	assert.Len(t, tasks, len(config.DefaultTasks))
	for name := range config.DefaultTasks {
		assert.Contains(t, tasks, name)
	}
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	journal := &fakeJournal{}
	deps, _ := newDeps(t, journal)
	require.NoError(t, newSQLMaintenanceTask(deps)(context.Background()))
	assert.Equal(t, 1, journal.maintenanceRun)

	failing := &fakeJournal{err: errors.New("disk I/O error")}
	deps, _ = newDeps(t, failing)
	assert.ErrorIs(t, newSQLMaintenanceTask(deps)(context.Background()), failing.err)
}

func TestDeliveryPruneTask(t *testing.T) {
	t.Parallel()

	journal := &fakeJournal{pruneRemoved: 4}
	deps, _ := newDeps(t, journal)

	before := time.Now()
	require.NoError(t, newDeliveryPruneTask(deps)(context.Background()))

	assert.WithinDuration(t, before.Add(-48*time.Hour), journal.pruneBefore, 5*time.Second)
}

func TestRegistryBackupTask(t *testing.T) {
	t.Parallel()

	t.Run("missing registry is not an error", func(t *testing.T) {
		t.Parallel()
		deps, _ := newDeps(t, &fakeJournal{})

		require.NoError(t, newRegistryBackupTask(deps)(context.Background()))

		_, err := os.Stat(deps.Config.Registry.BackupDir)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("copies registry and keeps newest backups", func(t *testing.T) {
		t.Parallel()
		deps, _ := newDeps(t, &fakeJournal{})
		backupDir := deps.Config.Registry.BackupDir

		reg := registry.New(registry.Entry{ID: -100111, Name: "Team_A"})
		require.NoError(t, deps.Registry.Save(reg))

		require.NoError(t, os.MkdirAll(backupDir, 0o755))
		old := []string{
			"group_ids-20240101-000000.csv",
			"group_ids-20240102-000000.csv",
			"group_ids-20240103-000000.csv",
		}
		for _, name := range old {
			require.NoError(t, os.WriteFile(filepath.Join(backupDir, name), []byte("old"), 0o600))
		}
		require.NoError(t, os.WriteFile(filepath.Join(backupDir, "notes.txt"), []byte("keep me"), 0o600))

		require.NoError(t, newRegistryBackupTask(deps)(context.Background()))

		entries, err := os.ReadDir(backupDir)
		require.NoError(t, err)
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}

		require.Len(t, names, 4)
		assert.Contains(t, names, "notes.txt")
		assert.NotContains(t, names, old[0])
		assert.Contains(t, names, old[1])
		assert.Contains(t, names, old[2])

		var newest string
		for _, n := range names {
			if n != "notes.txt" && n > newest {
				newest = n
			}
		}
		want, err := os.ReadFile(deps.Registry.Path())
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(backupDir, newest))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	})
}

func TestBackupPrefix(t *testing.T) {
	t.Parallel()

	prefix, ext := backupPrefix("/data/group_ids.csv")
	assert.Equal(t, "group_ids-", prefix)
	assert.Equal(t, ".csv", ext)
}
