package domain

import (
	"errors"
	"math"
	"time"
)

var ErrReviewNotFound = errors.New("review not found")
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Review is an append-only customer rating of a book.
type Review struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	BookID    string    `json:"book_id" bson:"book_id"`
	UserEmail string    `json:"user_email" bson:"user_email"`
	UserName  string    `json:"user_name" bson:"user_name"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	PostedAt  time.Time `json:"posted_at" bson:"posted_at"`
}

// RatingSummary is the client-side aggregation of a book's reviews.
type RatingSummary struct {
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
	Histogram [5]int  `json:"histogram"` // Histogram[0] counts 1-star reviews.
}

// Summarize aggregates reviews into an average (two decimals) and a
// per-star histogram. Out-of-range ratings are skipped.
func Summarize(reviews []Review) RatingSummary {
	var s RatingSummary
	total := 0
	for _, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		s.Histogram[r.Rating-1]++
		total += r.Rating
		s.Count++
	}
	if s.Count > 0 {
		s.Average = math.Round(float64(total)/float64(s.Count)*100) / 100
	}
	return s
}
