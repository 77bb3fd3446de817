// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookmarks/internal/config"
	"github.com/mrlokans/bookmarks/internal/tasks"
)

// CleanupScheduler periodically enqueues maintenance tasks: audit log
// retention and orphan tag removal. The heavy lifting happens on the task
// queue so a slow cleanup never blocks the cron loop.
type CleanupScheduler struct {
	taskClient    *tasks.Client
	auditCfg      config.AuditCleanup
	tagCfg        config.TagCleanup
	retentionDays int

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewCleanupScheduler creates a new scheduler instance.
func NewCleanupScheduler(taskClient *tasks.Client, auditCfg config.AuditCleanup, tagCfg config.TagCleanup, retentionDays int) *CleanupScheduler {
	return &CleanupScheduler{
		taskClient:    taskClient,
		auditCfg:      auditCfg,
		tagCfg:        tagCfg,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler for whichever cleanup jobs are enabled.
func (s *CleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.taskClient == nil {
		log.Printf("Cleanup scheduler: task queue not configured, skipping")
		return nil
	}

	scheduled := 0

	if s.auditCfg.Enabled {
		if _, err := s.cron.AddFunc(s.auditCfg.Schedule, s.enqueueAuditCleanup); err != nil {
			return fmt.Errorf("invalid audit cleanup schedule '%s': %w", s.auditCfg.Schedule, err)
		}
		log.Printf("Cleanup scheduler: audit log cleanup scheduled '%s'", s.auditCfg.Schedule)
		scheduled++
	}

	if s.tagCfg.Enabled {
		if _, err := s.cron.AddFunc(s.tagCfg.Schedule, s.enqueueTagCleanup); err != nil {
			return fmt.Errorf("invalid tag cleanup schedule '%s': %w", s.tagCfg.Schedule, err)
		}
		log.Printf("Cleanup scheduler: orphan tag cleanup scheduled '%s'", s.tagCfg.Schedule)
		scheduled++
	}

	if scheduled == 0 {
		log.Printf("Cleanup scheduler: disabled")
		return nil
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to complete.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Cleanup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *CleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTimes returns the next fire time of each scheduled job.
func (s *CleanupScheduler) NextRunTimes() []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entries := s.cron.Entries()
	times := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		times = append(times, entry.Next)
	}
	return times
}

func (s *CleanupScheduler) enqueueAuditCleanup() {
	task := tasks.CleanupAuditLogsTask{RetentionDays: s.retentionDays}
	if _, err := s.taskClient.Add(task).Save(); err != nil {
		log.Printf("Cleanup scheduler: failed to enqueue audit cleanup: %v", err)
	}
}

func (s *CleanupScheduler) enqueueTagCleanup() {
	if _, err := s.taskClient.Add(tasks.CleanupOrphanTagsTask{}).Save(); err != nil {
		log.Printf("Cleanup scheduler: failed to enqueue tag cleanup: %v", err)
	}
}
