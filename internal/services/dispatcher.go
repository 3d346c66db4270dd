package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// BestEffort runs side effects whose outcome must never reach the caller.
// Each task gets its own context detached from the request, bounded by
// timeout. Errors and panics are logged and dropped.
type BestEffort struct {
	logger  zerolog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewBestEffort(logger zerolog.Logger, timeout time.Duration) *BestEffort {
	return &BestEffort{logger: logger, timeout: timeout}
}

// Go starts task in the background and returns immediately.
func (d *BestEffort) Go(name string, task func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.run(task); err != nil {
			d.logger.Error().Err(err).Str("task", name).Msg("best-effort task failed")
		}
	}()
}

func (d *BestEffort) run(task func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	return task(ctx)
}

// Wait blocks until every started task has finished.
func (d *BestEffort) Wait() {
	d.wg.Wait()
}
