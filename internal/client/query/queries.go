// Package query implements the read path shared by every view: a process-wide
// result cache keyed by query identity, with request de-duplication,
// invalidation-triggered refetch, and optional polling.
//
// Consistency rules, in order of precedence:
//   - Concurrent reads of an equal key share one in-flight fetch.
//   - Within one key only the most recently issued fetch may write the cache;
//     superseded responses are discarded.
//   - An invalidation that arrives while a fetch is in flight wins: the stale
//     response is discarded and the key is fetched again under the new
//     generation.
package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/booknest/booknest/internal/client/metrics"
)

// ErrDisabled is returned when a query's precondition (Options.Disabled)
// suspends execution.
var ErrDisabled = errors.New("query: disabled by precondition")

// FetchFunc loads a query's data from upstream.
type FetchFunc func(ctx context.Context) (any, error)

// Options is the explicit, per-query configuration.
type Options struct {
	// Disabled suspends the query until its precondition holds
	// (e.g. identity not yet known).
	Disabled bool
	// Revalidate serves a cache hit immediately and schedules a background
	// refresh of the same key.
	Revalidate bool
	// Retries is the number of additional attempts after a failed fetch.
	// Zero means a single attempt; auth-sensitive reads must keep it zero.
	Retries int
	// PollInterval enables periodic refresh while a watcher is attached.
	// Ignored by Get.
	PollInterval time.Duration
}

type fetchResult struct {
	data any
	err  error
}

type entry struct {
	key     Key
	fetch   FetchFunc
	retries int

	data    any
	err     error
	hasData bool
	stale   bool

	fetching bool
	seq      uint64 // id of the most recently issued fetch
	gen      uint64 // bumped on every invalidation

	waiters  []chan fetchResult
	watchers map[*Watcher]struct{}
}

// Queries is the shared query cache. One instance lives for the whole
// process; construct with New and release with Close.
type Queries struct {
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	pool   *revalidator

	mu      sync.Mutex
	entries map[Key]*entry
}

// New creates the cache and starts its revalidation pool.
func New(log zerolog.Logger) *Queries {
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queries{
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[Key]*entry),
	}
	q.pool = newRevalidator(0, q.refresh, log)
	q.pool.Start(ctx)
	return q
}

// Close stops the revalidation pool and all polling watchers.
func (q *Queries) Close() {
	q.cancel()
}

// Get returns the cached value for key, or fetches it. Concurrent callers of
// an equal key share a single upstream request.
func (q *Queries) Get(ctx context.Context, key Key, fetch FetchFunc, opts Options) (any, error) {
	if opts.Disabled {
		metrics.QueryReadsTotal.WithLabelValues("disabled").Inc()
		return nil, ErrDisabled
	}

	q.mu.Lock()
	e := q.ensureLocked(key)
	e.fetch = fetch
	e.retries = opts.Retries

	if e.hasData && !e.stale {
		data := e.data
		q.mu.Unlock()
		metrics.QueryReadsTotal.WithLabelValues("hit").Inc()
		if opts.Revalidate {
			q.pool.Enqueue(key)
		}
		return data, nil
	}

	ch := make(chan fetchResult, 1)
	e.waiters = append(e.waiters, ch)
	if e.fetching {
		q.mu.Unlock()
		metrics.QueryReadsTotal.WithLabelValues("dedup").Inc()
	} else {
		q.startFetchLocked(e)
		q.mu.Unlock()
		metrics.QueryReadsTotal.WithLabelValues("miss").Inc()
	}

	select {
	case <-ctx.Done():
		// The shared fetch keeps running for the other waiters; this
		// caller only stops waiting for it.
		return nil, ctx.Err()
	case r := <-ch:
		return r.data, r.err
	}
}

// Fetch is the typed read-through entry point used by views.
func Fetch[T any](ctx context.Context, q *Queries, key Key, fn func(context.Context) (T, error), opts Options) (T, error) {
	var zero T
	data, err := q.Get(ctx, key, func(ctx context.Context) (any, error) { return fn(ctx) }, opts)
	if err != nil {
		return zero, err
	}
	v, ok := data.(T)
	if !ok {
		return zero, fmt.Errorf("query: key %q holds %T, not %T", key, data, zero)
	}
	return v, nil
}

// Invalidate marks key stale. Attached watchers are refreshed exactly once;
// without watchers the next Get refetches.
func (q *Queries) Invalidate(key Key) {
	q.mu.Lock()
	e := q.entries[key]
	if e == nil {
		q.mu.Unlock()
		return
	}
	e.gen++
	e.stale = true
	refetch := len(e.watchers) > 0 && e.fetch != nil
	q.mu.Unlock()

	if refetch {
		metrics.InvalidationsTotal.WithLabelValues("refetch").Inc()
		q.pool.Enqueue(key)
	} else {
		metrics.InvalidationsTotal.WithLabelValues("mark_stale").Inc()
	}
}

// InvalidatePrefix invalidates every cached key under the given resource
// prefix, e.g. "orders" after an order mutation.
func (q *Queries) InvalidatePrefix(prefix string) {
	q.mu.Lock()
	keys := make([]Key, 0, len(q.entries))
	for k := range q.entries {
		if k.HasPrefix(prefix) {
			keys = append(keys, k)
		}
	}
	q.mu.Unlock()

	for _, k := range keys {
		q.Invalidate(k)
	}
}

func (q *Queries) ensureLocked(key Key) *entry {
	e := q.entries[key]
	if e == nil {
		e = &entry{key: key, watchers: make(map[*Watcher]struct{})}
		q.entries[key] = e
	}
	return e
}

// startFetchLocked issues a new fetch for e. Caller holds q.mu.
func (q *Queries) startFetchLocked(e *entry) {
	e.fetching = true
	e.seq++
	go q.runFetch(e.key, e.fetch, e.retries, e.seq, e.gen)
}

func (q *Queries) runFetch(key Key, fetch FetchFunc, retries int, seq, gen uint64) {
	var data any
	var err error
	for attempt := 0; ; attempt++ {
		data, err = fetch(q.ctx)
		if err == nil || attempt >= retries {
			break
		}
	}

	q.mu.Lock()
	e := q.entries[key]
	if e == nil {
		q.mu.Unlock()
		return
	}

	if seq != e.seq {
		// A newer fetch was issued; it owns the entry now.
		q.mu.Unlock()
		metrics.QueryFetchesTotal.WithLabelValues("discarded").Inc()
		return
	}

	if gen != e.gen {
		// Invalidated while in flight: the response is stale and must not
		// overwrite the cache. Refetch under the current generation if
		// anyone still cares about the result.
		if len(e.waiters) > 0 || len(e.watchers) > 0 {
			q.startFetchLocked(e)
		} else {
			e.fetching = false
		}
		q.mu.Unlock()
		metrics.QueryFetchesTotal.WithLabelValues("discarded").Inc()
		return
	}

	e.fetching = false
	e.err = err
	if err == nil {
		e.data = data
		e.hasData = true
		e.stale = false
	}
	waiters := e.waiters
	e.waiters = nil
	watchers := make([]*Watcher, 0, len(e.watchers))
	for w := range e.watchers {
		watchers = append(watchers, w)
	}
	q.mu.Unlock()

	if err == nil {
		metrics.QueryFetchesTotal.WithLabelValues("ok").Inc()
	} else {
		metrics.QueryFetchesTotal.WithLabelValues("error").Inc()
		q.log.Warn().Err(err).Str("key", string(key)).Msg("query fetch failed")
	}

	r := fetchResult{data: data, err: err}
	for _, ch := range waiters {
		ch <- r
	}
	for _, w := range watchers {
		w.deliver(Update{Key: key, Data: data, Err: err})
	}
}

// refresh is the revalidation pool's work function: issue a fresh fetch for
// key under whatever generation is current.
func (q *Queries) refresh(key Key) {
	q.mu.Lock()
	e := q.entries[key]
	if e == nil || e.fetch == nil {
		q.mu.Unlock()
		return
	}
	q.startFetchLocked(e)
	q.mu.Unlock()
}
