package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ithomeportal/unilink-energy/internal/repository"
)

const (
	DefaultSweepInterval = 5 * time.Minute
	DefaultSweepGrace    = 24 * time.Hour
)

// StartAttemptSweeper starts a background goroutine that periodically moves
// pending attempts whose code lapsed more than grace ago to expired, so
// abandoned logins do not sit in pending forever. Verify still reports a
// swept attempt as expired. Non-positive interval or grace fall back to the
// defaults. The worker stops when ctx is done; the returned channel is closed
// once it has.
func StartAttemptSweeper(ctx context.Context, interval, grace time.Duration, repo repository.AttemptRepository, logger zerolog.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if grace <= 0 {
		grace = DefaultSweepGrace
	}

	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Debug().Msg("attempt sweeper: shutting down")
				return
			case now := <-ticker.C:
				sweepExpiredAttempts(ctx, repo, now.Add(-grace), logger)
			}
		}
	}()
	return done
}

func sweepExpiredAttempts(ctx context.Context, repo repository.AttemptRepository, cutoff time.Time, logger zerolog.Logger) int64 {
	n, err := repo.ExpirePending(ctx, cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("attempt sweeper: expire pending failed")
		return 0
	}
	if n > 0 {
		logger.Info().Int64("expired", n).Time("cutoff", cutoff).Msg("attempt sweeper: expired stale attempts")
	}
	return n
}
