package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/relaybot/internal/bot/tasks"
	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/logger"
)

// blockingListener behaves like the long-poll loop: it returns once ctx is done.
type blockingListener struct {
	started chan struct{}
}

func (l *blockingListener) Start(ctx context.Context) {
	close(l.started)
	<-ctx.Done()
}

// returningListener stops on its own, as if polling broke.
type returningListener struct{}

func (returningListener) Start(ctx context.Context) {}

func newTestScheduler(t *testing.T, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) *Scheduler {
	t.Helper()
	s, err := NewScheduler(logger.Discard(), cfg, taskMap)
	require.NoError(t, err)
	return s
}

func TestBotRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	listener := &blockingListener{started: make(chan struct{})}
	b := NewBot(logger.Discard(), listener, newTestScheduler(t, &config.SchedulerConfig{}, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	<-listener.started
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestBotRunFailsWhenListenerStops(t *testing.T) {
	t.Parallel()

	b := NewBot(logger.Discard(), returningListener{}, newTestScheduler(t, &config.SchedulerConfig{}, nil))

	err := b.Run(context.Background())
	assert.ErrorContains(t, err, "telegram listener stopped unexpectedly")
}

func TestSchedulerStart(t *testing.T) {
	t.Parallel()

	noop := func(ctx context.Context) error { return nil }
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"registry_backup": {Enabled: true, Schedule: "0 0 3 * * *"},
		"delivery_prune":  {Enabled: false, Schedule: "0 30 3 * * *"},
		"unknown_task":    {Enabled: true, Schedule: "0 0 1 * * *"},
		"sql_maintenance": {Enabled: true, Schedule: "not a cron"},
	}}
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"registry_backup": noop,
		"delivery_prune":  noop,
		"sql_maintenance": noop,
	}

	s := newTestScheduler(t, cfg, taskMap)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop() })

	assert.Equal(t, []string{"registry_backup"}, s.Jobs())
	assert.Error(t, s.Start(context.Background()), "second start is rejected")
}

func TestSchedulerStopWhenNotRunning(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t, nil, nil)
	assert.NoError(t, s.Stop())
}
