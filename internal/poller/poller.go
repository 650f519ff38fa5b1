// Package poller drives the alert processing loop: it periodically fetches
// maintenance state, policy data and alarm deltas, and feeds them through the
// engine pipeline.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/good-yellow-bee/alertrelay/internal/engine"
	"github.com/good-yellow-bee/alertrelay/internal/metrics"
	"github.com/good-yellow-bee/alertrelay/internal/models"
	"github.com/good-yellow-bee/alertrelay/internal/storage"
)

// ErrTooManyFailures is returned by Run when the consecutive-error budget is
// exhausted. The process is expected to exit and be restarted externally.
var ErrTooManyFailures = errors.New("too many consecutive poll failures")

// Config holds poller settings.
type Config struct {
	Interval             time.Duration // sleep between cycles (default: 1s)
	MaxConsecutiveErrors int           // fatal threshold (default: 5)
}

// Poller runs the poll loop. A single Poller drives all matching and dispatch
// sequentially; there is no parallel alert processing within a cycle.
type Poller struct {
	cfg      Config
	alarms   storage.AlarmSource
	windows  storage.MaintenanceRepository
	groups   storage.PolicyGroupRepository
	pipeline *engine.Pipeline

	now func() time.Time
}

// New creates a poller.
func New(cfg Config, alarms storage.AlarmSource, windows storage.MaintenanceRepository, groups storage.PolicyGroupRepository, pipeline *engine.Pipeline) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.MaxConsecutiveErrors <= 0 {
		cfg.MaxConsecutiveErrors = 5
	}
	return &Poller{
		cfg:      cfg,
		alarms:   alarms,
		windows:  windows,
		groups:   groups,
		pipeline: pipeline,
		now:      time.Now,
	}
}

// Run executes cycles until the context is canceled or the consecutive-error
// budget is exhausted. The loop sleeps after each cycle completes; it is not
// a fixed-rate timer.
func (p *Poller) Run(ctx context.Context) error {
	consecutiveErrors := 0

	for {
		start := p.now()
		err := p.cycle(ctx)
		metrics.CycleDuration.Observe(p.now().Sub(start).Seconds())

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			consecutiveErrors++
			metrics.ConsecutiveErrors.Set(float64(consecutiveErrors))
			metrics.CyclesTotal.WithLabelValues("error").Inc()
			log.Printf("poll cycle failed (%d/%d): %v", consecutiveErrors, p.cfg.MaxConsecutiveErrors, err)

			if consecutiveErrors >= p.cfg.MaxConsecutiveErrors {
				log.Printf("max consecutive errors reached (%d), exiting", p.cfg.MaxConsecutiveErrors)
				return ErrTooManyFailures
			}
		} else {
			consecutiveErrors = 0
			metrics.ConsecutiveErrors.Set(0)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.cfg.Interval):
		}
	}
}

// cycle runs one fetch-and-process pass. Any fetch failure aborts the cycle;
// nothing is processed from a partial fetch.
func (p *Poller) cycle(ctx context.Context) error {
	now := p.now()

	activeWindows, err := p.windows.ListActive(ctx, now)
	if err != nil {
		return fmt.Errorf("fetch active maintenance windows: %w", err)
	}

	policyGroups, err := p.groups.List(ctx)
	if err != nil {
		return fmt.Errorf("fetch policy groups: %w", err)
	}
	if len(policyGroups) == 0 {
		log.Printf("no policy groups configured, skipping cycle")
		metrics.CyclesTotal.WithLabelValues("empty").Inc()
		return nil
	}

	deltas, err := p.alarms.FetchDeltas(ctx)
	if err != nil {
		return fmt.Errorf("fetch alert deltas: %w", err)
	}
	if deltas.Empty() {
		metrics.CyclesTotal.WithLabelValues("empty").Inc()
		return nil
	}

	// Batch order is fixed: new, changed, closed.
	p.pipeline.ProcessBatch(ctx, models.LifecycleNew, deltas.New, activeWindows, policyGroups)
	p.pipeline.ProcessBatch(ctx, models.LifecycleChanged, deltas.Changed, activeWindows, policyGroups)
	p.pipeline.ProcessBatch(ctx, models.LifecycleClosed, deltas.Closed, activeWindows, policyGroups)

	metrics.CyclesTotal.WithLabelValues("ok").Inc()
	return nil
}
