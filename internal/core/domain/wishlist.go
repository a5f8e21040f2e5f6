package domain

import (
	"errors"
	"time"
)

var ErrWishlistEntryNotFound = errors.New("wishlist entry not found")
var ErrDuplicateWishlist = errors.New("book already on wishlist")

// WishlistEntry links a user to a book they saved for later. Display fields
// are snapshotted so the wishlist renders without a catalog round trip.
type WishlistEntry struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	BookID    string    `json:"book_id" bson:"book_id"`
	UserEmail string    `json:"user_email" bson:"user_email"`
	Title     string    `json:"title" bson:"title"`
	Author    string    `json:"author" bson:"author"`
	Price     float64   `json:"price" bson:"price"`
	ImageURL  string    `json:"image_url" bson:"image_url"`
	AddedAt   time.Time `json:"added_at" bson:"added_at"`
}
