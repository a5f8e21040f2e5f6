package query

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// revalidator routes refresh jobs to a fixed set of workers using consistent
// hashing on the query key, so refetches for one key are applied in order.
type revalidator struct {
	workers []chan Key
	refresh func(Key)
	log     zerolog.Logger
}

// newRevalidator creates a pool with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func newRevalidator(numWorkers int, refresh func(Key), log zerolog.Logger) *revalidator {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &revalidator{
		workers: make([]chan Key, numWorkers),
		refresh: refresh,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan Key, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *revalidator) Start(ctx context.Context) {
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
}

// Enqueue schedules a refresh of key on the worker responsible for it.
// Non-blocking up to channelBuffer capacity.
func (r *revalidator) Enqueue(key Key) {
	r.workers[r.shardIndex(key)] <- key
}

// shardIndex maps a key deterministically to a worker index.
func (r *revalidator) shardIndex(key Key) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(r.workers)
}

func (r *revalidator) runWorker(ctx context.Context, id int, ch <-chan Key) {
	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-ch:
			if !ok {
				return
			}
			r.refresh(key)
		}
	}
}
