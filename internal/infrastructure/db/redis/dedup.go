package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Placements of the same book by the same customer inside this window are
// treated as accidental resubmissions.
const dedupWindow = 10 * time.Minute

// OrderDeduper provides double-submission checks backed by Redis.
// Key format: order-dedup:<email>:<book_id>
type OrderDeduper struct {
	client *redis.Client
}

// NewOrderDeduper creates an OrderDeduper wrapping the given Redis client.
func NewOrderDeduper(client *redis.Client) *OrderDeduper {
	return &OrderDeduper{client: client}
}

// IsDuplicate reports whether an equal placement was recorded inside the
// dedup window.
func (d *OrderDeduper) IsDuplicate(ctx context.Context, email, bookID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(email, bookID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records a placement (expires after the dedup window).
func (d *OrderDeduper) Mark(ctx context.Context, email, bookID string) error {
	return d.client.Set(ctx, d.key(email, bookID), "1", dedupWindow).Err()
}

func (d *OrderDeduper) key(email, bookID string) string {
	return fmt.Sprintf("order-dedup:%s:%s", email, bookID)
}
