package bot

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ellirien/rolekeeper/internal/bot/tasks"
	"github.com/ellirien/rolekeeper/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerRunsOnlyEnabledRegisteredTasks(t *testing.T) {
	t.Parallel()

	var tickRuns, disabledRuns atomic.Int32
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"tick":       {Enabled: true, Schedule: "* * * * * *"},
		"disabled":   {Enabled: false, Schedule: "* * * * * *"},
		"unknown":    {Enabled: true, Schedule: "* * * * * *"},
		"unscheduled": {Enabled: true, Schedule: ""},
	}}
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"tick": func(_ context.Context) error {
			tickRuns.Add(1)
			return nil
		},
		"disabled": func(_ context.Context) error {
			disabledRuns.Add(1)
			return nil
		},
	}

	s, err := NewScheduler(discardLogger(), cfg, taskMap)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second Start must report already running")

	assert.Eventually(t, func() bool { return tickRuns.Load() > 0 },
		3*time.Second, 50*time.Millisecond)
	assert.Zero(t, disabledRuns.Load())

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop(), "Stop is idempotent")
}

func TestSchedulerStartWithoutTasks(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(discardLogger(), &config.SchedulerConfig{}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())
}

func TestNewBotWiring(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(discardLogger(), nil, nil)
	require.NoError(t, err)

	b := NewBot(discardLogger(), nil, sched)
	require.NotNil(t, b)
	assert.Same(t, sched, b.scheduler)
	assert.Nil(t, b.tgBot)
}
