package ports

import "context"

// StatsOverview is the admin dashboard aggregate. Revenue counts paid
// orders only.
type StatsOverview struct {
	Books      int64   `json:"books"`
	Orders     int64   `json:"orders"`
	Users      int64   `json:"users"`
	Reviews    int64   `json:"reviews"`
	Revenue    float64 `json:"revenue"`
	PaidOrders int64   `json:"paid_orders"`
}

// StatsRepository runs the storage-side aggregations.
type StatsRepository interface {
	Overview(ctx context.Context) (*StatsOverview, error)
}

// StatsService exposes the dashboard aggregate.
type StatsService interface {
	Overview(ctx context.Context) (*StatsOverview, error)
}
