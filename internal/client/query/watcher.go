package query

import (
	"sync"
	"time"

	"github.com/booknest/booknest/internal/client/metrics"
)

// Update carries a refreshed query result to an attached watcher.
type Update struct {
	Key  Key
	Data any
	Err  error
}

// Watcher is an attached consumer of a query key. It receives an Update for
// the initial load, for every invalidation of its key, and on every poll
// tick. Close detaches the watcher and stops its polling timer.
type Watcher struct {
	key     Key
	q       *Queries
	updates chan Update
	stop    chan struct{}
	once    sync.Once
}

// Watch attaches a consumer to key and schedules its initial load. With
// Options.PollInterval set, the key is refreshed periodically until Close.
func (q *Queries) Watch(key Key, fetch FetchFunc, opts Options) *Watcher {
	w := &Watcher{
		key:     key,
		q:       q,
		updates: make(chan Update, 16),
		stop:    make(chan struct{}),
	}

	q.mu.Lock()
	e := q.ensureLocked(key)
	e.fetch = fetch
	e.retries = opts.Retries
	e.watchers[w] = struct{}{}
	needsLoad := (!e.hasData || e.stale) && !e.fetching
	q.mu.Unlock()

	metrics.WatchersActive.Inc()
	if needsLoad {
		q.pool.Enqueue(key)
	}

	if opts.PollInterval > 0 {
		go w.poll(opts.PollInterval)
	}
	return w
}

// Updates returns the watcher's notification channel. Slow consumers lose
// intermediate updates rather than blocking the cache.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Close detaches the watcher, cancelling its polling timer. Idempotent.
func (w *Watcher) Close() {
	w.once.Do(func() {
		close(w.stop)
		w.q.mu.Lock()
		if e := w.q.entries[w.key]; e != nil {
			delete(e.watchers, w)
		}
		w.q.mu.Unlock()
		metrics.WatchersActive.Dec()
	})
}

func (w *Watcher) poll(period time.Duration) {
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-w.q.ctx.Done():
			return
		case <-t.C:
			w.q.pool.Enqueue(w.key)
		}
	}
}

func (w *Watcher) deliver(u Update) {
	select {
	case w.updates <- u:
	default:
	}
}
