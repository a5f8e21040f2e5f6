package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

// StatsRepository computes the admin dashboard aggregate with collection
// counts plus one aggregation over paid orders.
type StatsRepository struct {
	db *mongo.Database
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Overview(ctx context.Context) (*ports.StatsOverview, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out ports.StatsOverview
	counts := []struct {
		collection string
		dest       *int64
	}{
		{collectionBooks, &out.Books},
		{collectionOrders, &out.Orders},
		{collectionUsers, &out.Users},
		{collectionReviews, &out.Reviews},
	}
	for _, c := range counts {
		n, err := r.db.Collection(c.collection).CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c.collection, err)
		}
		*c.dest = n
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"payment_status": domain.PaymentPaid}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"revenue": bson.M{"$sum": "$price"},
			"paid":    bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.db.Collection(collectionOrders).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate revenue: %w", err)
	}

	var row struct {
		Revenue float64 `bson:"revenue"`
		Paid    int64   `bson:"paid"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode revenue: %w", err)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("aggregate revenue: %w", err)
	}

	out.Revenue = row.Revenue
	out.PaidOrders = row.Paid
	return &out, nil
}
