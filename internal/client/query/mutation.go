package query

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/booknest/booknest/internal/client/metrics"
)

// ErrMutationPending is returned when Trigger is called while a previous run
// of the same mutation has not completed.
var ErrMutationPending = errors.New("query: mutation already in flight")

// MutationConfig declares a write operation and the cached queries that
// depend on the entity it touches.
type MutationConfig[In, Out any] struct {
	// Run performs the write against the backend.
	Run func(ctx context.Context, in In) (Out, error)
	// InvalidateKeys are invalidated after a successful run.
	InvalidateKeys func(in In) []Key
	// InvalidatePrefixes invalidate whole resources after a successful run.
	InvalidatePrefixes []string
	// OnSuccess and OnError are optional caller-messaging hooks.
	OnSuccess func(Out)
	OnError   func(error)
}

// Mutation wraps a write operation so that, on success, every declared cache
// dependency is invalidated, and at most one run is in flight at a time.
// A failed run leaves the cache untouched. One instance backs one explicit
// user action (its submit control).
type Mutation[In, Out any] struct {
	queries *Queries
	cfg     MutationConfig[In, Out]
	busy    atomic.Bool
}

// NewMutation builds a Mutation bound to the shared query cache.
func NewMutation[In, Out any](q *Queries, cfg MutationConfig[In, Out]) *Mutation[In, Out] {
	return &Mutation[In, Out]{queries: q, cfg: cfg}
}

// Pending reports whether a run is currently in flight. Views use it to
// disable the triggering control.
func (m *Mutation[In, Out]) Pending() bool {
	return m.busy.Load()
}

// Trigger executes the mutation once. A second Trigger before the first
// completes returns ErrMutationPending without touching the backend.
func (m *Mutation[In, Out]) Trigger(ctx context.Context, in In) (Out, error) {
	var zero Out
	if !m.busy.CompareAndSwap(false, true) {
		metrics.MutationsTotal.WithLabelValues("suppressed").Inc()
		return zero, ErrMutationPending
	}
	defer m.busy.Store(false)

	v, err := m.cfg.Run(ctx, in)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues("error").Inc()
		if m.cfg.OnError != nil {
			m.cfg.OnError(err)
		}
		return zero, err
	}

	if m.cfg.InvalidateKeys != nil {
		for _, k := range m.cfg.InvalidateKeys(in) {
			m.queries.Invalidate(k)
		}
	}
	for _, p := range m.cfg.InvalidatePrefixes {
		m.queries.InvalidatePrefix(p)
	}

	metrics.MutationsTotal.WithLabelValues("ok").Inc()
	if m.cfg.OnSuccess != nil {
		m.cfg.OnSuccess(v)
	}
	return v, nil
}
