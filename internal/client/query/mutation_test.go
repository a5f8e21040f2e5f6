package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMutationInvalidatesOnSuccess(t *testing.T) {
	q := newTestQueries(t)
	var fetches atomic.Int64
	key := NewKey("wishlist", "ana@example.com")
	fetch := countingFetch(&fetches, nil, "wishlist")

	if _, err := q.Get(context.Background(), key, fetch, Options{}); err != nil {
		t.Fatal(err)
	}

	var succeeded bool
	m := NewMutation(q, MutationConfig[string, string]{
		Run: func(ctx context.Context, bookID string) (string, error) {
			return "entry-" + bookID, nil
		},
		InvalidateKeys: func(string) []Key { return []Key{key} },
		OnSuccess:      func(string) { succeeded = true },
	})

	if _, err := m.Trigger(context.Background(), "b1"); err != nil {
		t.Fatal(err)
	}
	if !succeeded {
		t.Fatal("OnSuccess not called")
	}

	if _, err := q.Get(context.Background(), key, fetch, Options{}); err != nil {
		t.Fatal(err)
	}
	if n := fetches.Load(); n != 2 {
		t.Fatalf("fetches after mutation: got %d, want 2 (cache invalidated)", n)
	}
}

func TestMutationLeavesCacheOnFailure(t *testing.T) {
	q := newTestQueries(t)
	var fetches atomic.Int64
	key := NewKey("orders", "ana@example.com")
	fetch := countingFetch(&fetches, nil, "orders")

	if _, err := q.Get(context.Background(), key, fetch, Options{}); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("conflict")
	var reported error
	m := NewMutation(q, MutationConfig[string, string]{
		Run:            func(ctx context.Context, in string) (string, error) { return "", boom },
		InvalidateKeys: func(string) []Key { return []Key{key} },
		OnError:        func(err error) { reported = err },
	})

	if _, err := m.Trigger(context.Background(), "b1"); !errors.Is(err, boom) {
		t.Fatalf("err: got %v, want %v", err, boom)
	}
	if !errors.Is(reported, boom) {
		t.Fatalf("OnError: got %v", reported)
	}

	if _, err := q.Get(context.Background(), key, fetch, Options{}); err != nil {
		t.Fatal(err)
	}
	if n := fetches.Load(); n != 1 {
		t.Fatalf("fetches: got %d, want 1 (cache untouched on failure)", n)
	}
}

func TestMutationSuppressesDoubleTrigger(t *testing.T) {
	q := newTestQueries(t)

	var writes atomic.Int64
	entered := make(chan struct{})
	release := make(chan struct{})

	m := NewMutation(q, MutationConfig[struct{}, int]{
		Run: func(ctx context.Context, _ struct{}) (int, error) {
			writes.Add(1)
			close(entered)
			<-release
			return 1, nil
		},
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := m.Trigger(context.Background(), struct{}{}); err != nil {
			t.Errorf("first trigger: %v", err)
		}
	}()
	<-entered

	if !m.Pending() {
		t.Fatal("Pending should report true while running")
	}
	if _, err := m.Trigger(context.Background(), struct{}{}); !errors.Is(err, ErrMutationPending) {
		t.Fatalf("second trigger: got %v, want ErrMutationPending", err)
	}

	close(release)
	wg.Wait()

	if n := writes.Load(); n != 1 {
		t.Fatalf("backend writes: got %d, want exactly 1", n)
	}

	// The mutation is usable again once the first run finished.
	deadline := time.After(time.Second)
	for m.Pending() {
		select {
		case <-deadline:
			t.Fatal("mutation stuck pending")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	m2 := NewMutation(q, MutationConfig[struct{}, int]{
		Run: func(ctx context.Context, _ struct{}) (int, error) {
			writes.Add(1)
			return 2, nil
		},
	})
	if _, err := m2.Trigger(context.Background(), struct{}{}); err != nil {
		t.Fatalf("third trigger: %v", err)
	}
	if n := writes.Load(); n != 2 {
		t.Fatalf("backend writes: got %d, want 2", n)
	}
}
