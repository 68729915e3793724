// Package sink delivers completed lead records to external systems.
// Delivery is best-effort at-most-once: failures are logged, never
// retried, and never surface back into the wizard flow.
package sink

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clash-creation/qualify-cli/internal/model"
)

// Sink receives a completed lead record.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, lead *model.LeadRecord) error
}

// Dispatcher fans a lead record out to all registered sinks in parallel.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
}

// NewDispatcher creates a Dispatcher over the given sinks.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, timeout: 30 * time.Second}
}

// WithTimeout sets the per-dispatch deadline.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	d.timeout = timeout
	return d
}

// Dispatch sends the lead to every sink concurrently and waits for all
// of them. A failing sink does not stop the others.
func (d *Dispatcher) Dispatch(ctx context.Context, lead *model.LeadRecord) {
	if len(d.sinks) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var g errgroup.Group
	for _, s := range d.sinks {
		g.Go(func() error {
			if err := s.Deliver(ctx, lead); err != nil {
				zap.L().Warn("lead delivery failed",
					zap.String("sink", s.Name()),
					zap.String("lead_id", lead.ID),
					zap.Error(err))
				return nil
			}
			zap.L().Info("lead delivered",
				zap.String("sink", s.Name()),
				zap.String("lead_id", lead.ID))
			return nil
		})
	}
	g.Wait() //nolint:errcheck // sink errors are logged, not propagated
}
