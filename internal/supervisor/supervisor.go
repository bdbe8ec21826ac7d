// Package supervisor runs a tomb-supervised background loop that
// periodically logs engine performance metrics. It is demo plumbing,
// not part of the matching core: nothing under internal/engine or
// internal/book depends on it.
package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// MetricsSource is the subset of Engine the reporter depends on.
type MetricsSource interface {
	String() string
}

// Reporter ticks on an interval and logs MetricsSource's current
// performance snapshot, stopping cleanly when its context is
// cancelled or Shutdown is called.
type Reporter struct {
	source   MetricsSource
	interval time.Duration

	t      *tomb.Tomb
	cancel context.CancelFunc
}

// Create builds a Reporter for source, ticking every interval.
func Create(source MetricsSource, interval time.Duration) *Reporter {
	return &Reporter{source: source, interval: interval}
}

// Shutdown signals the reporter's loop to stop and waits for it to
// exit.
func (r *Reporter) Shutdown() {
	if r.cancel != nil {
		r.cancel()
	}
	if r.t != nil {
		_ = r.t.Wait()
	}
}

// Run starts the reporter's tick loop under ctx. It blocks until the
// context is cancelled or Shutdown is called.
func (r *Reporter) Run(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.t, ctx = tomb.WithContext(ctx)

	r.t.Go(func() error {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		log.Info().Dur("interval", r.interval).Msg("supervisor: metrics reporter started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("supervisor: metrics reporter stopped")
				return nil
			case <-ticker.C:
				log.Info().Str("metrics", r.source.String()).Msg("supervisor: performance metrics")
			}
		}
	})

	<-r.t.Dead()
}
