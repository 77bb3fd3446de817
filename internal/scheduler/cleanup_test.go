package scheduler

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookmarks/internal/config"
	"github.com/mrlokans/bookmarks/internal/tasks"
)

func newTestTaskClient(t *testing.T) *tasks.Client {
	dbPath := "./test_scheduler_" + t.Name() + ".db"

	client, err := tasks.NewClient(dbPath, tasks.DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		os.Remove("./test_scheduler_" + t.Name() + "-tasks.db")
	})

	return client
}

func TestCleanupScheduler_StartAndStop(t *testing.T) {
	client := newTestTaskClient(t)

	s := NewCleanupScheduler(client,
		config.AuditCleanup{Enabled: true, Schedule: "0 3 * * *"},
		config.TagCleanup{Enabled: true, Schedule: "30 3 * * *"},
		90,
	)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.Len(t, s.NextRunTimes(), 2)

	// Starting twice is a no-op
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRunTimes())

	// Stopping twice is safe
	s.Stop()
}

func TestCleanupScheduler_DisabledJobsDoNotStart(t *testing.T) {
	client := newTestTaskClient(t)

	s := NewCleanupScheduler(client,
		config.AuditCleanup{Enabled: false},
		config.TagCleanup{Enabled: false},
		90,
	)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestCleanupScheduler_NilTaskClient(t *testing.T) {
	s := NewCleanupScheduler(nil,
		config.AuditCleanup{Enabled: true, Schedule: "0 3 * * *"},
		config.TagCleanup{},
		90,
	)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestCleanupScheduler_InvalidSchedule(t *testing.T) {
	client := newTestTaskClient(t)

	s := NewCleanupScheduler(client,
		config.AuditCleanup{Enabled: true, Schedule: "not a cron expr"},
		config.TagCleanup{},
		90,
	)

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid audit cleanup schedule")
	assert.False(t, s.IsRunning())
}

func TestCleanupScheduler_ContextCancelStops(t *testing.T) {
	client := newTestTaskClient(t)

	s := NewCleanupScheduler(client,
		config.AuditCleanup{Enabled: true, Schedule: "0 3 * * *"},
		config.TagCleanup{},
		90,
	)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	require.True(t, s.IsRunning())

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}
