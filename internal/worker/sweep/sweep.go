// Package sweep periodically removes expired secure tokens. Token checks are
// lazy, so the sweep only keeps the table small.
package sweep

import (
	"context"
	"log/slog"
	"time"
)

// ExpiredTokenDeleter removes expired tokens and reports how many went away.
type ExpiredTokenDeleter interface {
	DeleteAllExpired(ctx context.Context) (int64, error)
}

// Job runs the expired-token sweep.
type Job struct {
	tokens ExpiredTokenDeleter
	logger *slog.Logger
}

// NewJob creates a Job.
func NewJob(tokens ExpiredTokenDeleter, logger *slog.Logger) *Job {
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{tokens: tokens, logger: logger}
}

// Run sweeps once.
func (j *Job) Run(ctx context.Context) (int64, error) {
	start := time.Now()
	removed, err := j.tokens.DeleteAllExpired(ctx)
	if err != nil {
		return 0, err
	}
	j.logger.InfoContext(ctx, "expired tokens swept",
		slog.Int64("removed", removed),
		slog.Duration("elapsed", time.Since(start)),
	)
	return removed, nil
}

// Start sweeps immediately and then on every tick until ctx is cancelled.
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("token sweeper started", slog.Duration("interval", interval))
	j.runLogged(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("token sweeper stopped")
			return
		case <-ticker.C:
			j.runLogged(ctx)
		}
	}
}

func (j *Job) runLogged(ctx context.Context) {
	if _, err := j.Run(ctx); err != nil && ctx.Err() == nil {
		j.logger.Error("token sweep failed", slog.String("error", err.Error()))
	}
}
