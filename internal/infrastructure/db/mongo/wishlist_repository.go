package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/booknest/booknest/internal/core/domain"
)

const collectionWishlist = "wishlist"

type WishlistRepository struct {
	col *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{col: db.Collection(collectionWishlist)}
}

// Insert stores a wishlist entry. The unique (user_email, book_id) index
// turns a concurrent double-add into domain.ErrDuplicateWishlist.
func (r *WishlistRepository) Insert(ctx context.Context, e *domain.WishlistEntry) (*domain.WishlistEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	entry := *e
	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.col.InsertOne(ctx, &entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateWishlist
		}
		return nil, fmt.Errorf("insert wishlist entry: %w", err)
	}
	return &entry, nil
}

func (r *WishlistRepository) FindByID(ctx context.Context, id string) (*domain.WishlistEntry, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *WishlistRepository) FindByUserAndBook(ctx context.Context, email, bookID string) (*domain.WishlistEntry, error) {
	return r.findOne(ctx, bson.M{"user_email": email, "book_id": bookID})
}

func (r *WishlistRepository) findOne(ctx context.Context, query bson.M) (*domain.WishlistEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.WishlistEntry
	if err := r.col.FindOne(ctx, query).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrWishlistEntryNotFound
		}
		return nil, fmt.Errorf("find wishlist entry: %w", err)
	}
	return &e, nil
}

func (r *WishlistRepository) ListByUser(ctx context.Context, email string) ([]*domain.WishlistEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_email": email}, options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	var entries []*domain.WishlistEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode wishlist: %w", err)
	}
	return entries, nil
}

func (r *WishlistRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete wishlist entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrWishlistEntryNotFound
	}
	return nil
}

func (r *WishlistRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_email", Value: 1}, {Key: "book_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
