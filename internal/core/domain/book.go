package domain

import (
	"errors"
	"time"
)

// BookStatus controls catalog visibility.
type BookStatus string

const (
	BookPublished   BookStatus = "published"
	BookUnpublished BookStatus = "unpublished"
)

var ErrBookNotFound = errors.New("book not found")
var ErrBookUnavailable = errors.New("book is not published")

// Book is a catalog item. Mutated by librarian/admin, read by everyone.
type Book struct {
	ID             string     `json:"id" bson:"_id,omitempty"`
	Title          string     `json:"title" bson:"title"`
	Author         string     `json:"author" bson:"author"`
	Price          float64    `json:"price" bson:"price"`
	Category       string     `json:"category" bson:"category"`
	Status         BookStatus `json:"status" bson:"status"`
	ImageURL       string     `json:"image_url" bson:"image_url"`
	Rating         float64    `json:"rating" bson:"rating"`
	Description    string     `json:"description" bson:"description"`
	LibrarianEmail string     `json:"librarian_email" bson:"librarian_email"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

// Visible reports whether the book may be shown to the given viewer.
// Unpublished books are visible only to admins and the owning librarian.
func (b *Book) Visible(role Role, viewerEmail string) bool {
	if b.Status == BookPublished {
		return true
	}
	if role == RoleAdmin {
		return true
	}
	return role == RoleLibrarian && b.LibrarianEmail == viewerEmail
}
