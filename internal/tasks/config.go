package tasks

import "time"

// Config tunes the background task queue.
type Config struct {
	// Workers is the number of concurrent task workers.
	Workers int

	// MaxRetries caps retry attempts for failed tasks.
	MaxRetries int

	// RetryDelay is the backoff between retries.
	RetryDelay time.Duration

	// TaskTimeout bounds a single task execution.
	TaskTimeout time.Duration

	// ReleaseAfter is when stuck tasks return to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed tasks are swept.
	CleanupInterval time.Duration

	// RetentionDuration is how long completed tasks are kept.
	RetentionDuration time.Duration
}

// DefaultConfig returns the defaults the server runs with when the
// configuration file leaves the queue section out.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}
