package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditCleaner struct {
	gotRetention time.Duration
	deleted      int64
	err          error
}

func (f *fakeAuditCleaner) DeleteOldEntries(retention time.Duration) (int64, error) {
	f.gotRetention = retention
	return f.deleted, f.err
}

type fakeTagsCleaner struct {
	called  bool
	deleted int64
	err     error
}

func (f *fakeTagsCleaner) DeleteOrphanTags() (int64, error) {
	f.called = true
	return f.deleted, f.err
}

func TestCleanupAuditLogsProcessor(t *testing.T) {
	cleaner := &fakeAuditCleaner{deleted: 5}
	processor := CleanupAuditLogsProcessor(cleaner)

	err := processor(context.Background(), CleanupAuditLogsTask{RetentionDays: 30})

	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, cleaner.gotRetention)
}

func TestCleanupAuditLogsProcessor_DefaultRetention(t *testing.T) {
	cleaner := &fakeAuditCleaner{}
	processor := CleanupAuditLogsProcessor(cleaner)

	require.NoError(t, processor(context.Background(), CleanupAuditLogsTask{}))
	assert.Equal(t, 90*24*time.Hour, cleaner.gotRetention)
}

func TestCleanupAuditLogsProcessor_Errors(t *testing.T) {
	processor := CleanupAuditLogsProcessor(nil)
	assert.Error(t, processor(context.Background(), CleanupAuditLogsTask{}))

	cleaner := &fakeAuditCleaner{err: errors.New("db locked")}
	processor = CleanupAuditLogsProcessor(cleaner)
	err := processor(context.Background(), CleanupAuditLogsTask{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db locked")
}

func TestCleanupOrphanTagsProcessor(t *testing.T) {
	cleaner := &fakeTagsCleaner{deleted: 3}
	processor := CleanupOrphanTagsProcessor(cleaner)

	require.NoError(t, processor(context.Background(), CleanupOrphanTagsTask{}))
	assert.True(t, cleaner.called)
}

func TestCleanupOrphanTagsProcessor_Errors(t *testing.T) {
	processor := CleanupOrphanTagsProcessor(nil)
	assert.Error(t, processor(context.Background(), CleanupOrphanTagsTask{}))

	cleaner := &fakeTagsCleaner{err: errors.New("db locked")}
	processor = CleanupOrphanTagsProcessor(cleaner)
	assert.Error(t, processor(context.Background(), CleanupOrphanTagsTask{}))
}

func TestQueueConfigs(t *testing.T) {
	auditCfg := CleanupAuditLogsTask{}.Config()
	assert.Equal(t, "cleanup_audit_logs", auditCfg.Name)
	assert.Equal(t, 3, auditCfg.MaxAttempts)

	tagCfg := CleanupOrphanTagsTask{}.Config()
	assert.Equal(t, "cleanup_orphan_tags", tagCfg.Name)
	assert.Equal(t, 1, tagCfg.MaxAttempts)
}
