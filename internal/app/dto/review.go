package dto

import (
	"time"

	domainreview "trailblaze/internal/domain/review"
	domainuser "trailblaze/internal/domain/user"
)

// Review is a public review payload with its author resolved when available.
type Review struct {
	ID           string    `json:"id"`
	CampgroundID string    `json:"campground_id"`
	AuthorID     string    `json:"author_id"`
	Author       string    `json:"author,omitempty"`
	Rating       int       `json:"rating"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

// MapReview builds a DTO from a domain review; author may be nil.
func MapReview(rev *domainreview.Review, author *domainuser.User) Review {
	if rev == nil {
		return Review{}
	}
	out := Review{
		ID:           string(rev.ID),
		CampgroundID: string(rev.Campground),
		AuthorID:     string(rev.Author),
		Rating:       rev.Rating,
		Body:         rev.Body,
		CreatedAt:    rev.CreatedAt,
	}
	if author != nil {
		out.Author = author.Username
	}
	return out
}
