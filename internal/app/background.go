package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Background runs detached fire-and-forget cache writes. Callers never
// observe completion; Wait drains in-flight tasks at shutdown so the
// process does not terminate a write mid-flight.
type Background struct {
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	log     zerolog.Logger
	timeout time.Duration
}

func NewBackground(maxInflight int64, log zerolog.Logger) *Background {
	if maxInflight <= 0 {
		maxInflight = 16
	}
	return &Background{
		sem:     semaphore.NewWeighted(maxInflight),
		log:     log,
		timeout: 10 * time.Second,
	}
}

// Go dispatches fn on a detached context. The parent request context is
// deliberately not propagated: the write must outlive the response.
func (b *Background) Go(name string, fn func(ctx context.Context) error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		if err := b.sem.Acquire(ctx, 1); err != nil {
			b.log.Warn().Str("task", name).Err(err).Msg("background task dropped")
			return
		}
		defer b.sem.Release(1)
		if err := fn(ctx); err != nil {
			b.log.Warn().Str("task", name).Err(err).Msg("background task failed")
		}
	}()
}

// Wait blocks until every dispatched task has finished.
func (b *Background) Wait() { b.wg.Wait() }
