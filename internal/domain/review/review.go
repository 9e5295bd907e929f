package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"trailblaze/internal/domain/campground"
	"trailblaze/internal/domain/shared/events"
	"trailblaze/internal/domain/user"
)

var (
	ErrMalformedID        = errors.New("review: malformed id")
	ErrNotFound           = errors.New("review: not found")
	ErrIDRequired         = errors.New("review: id is required")
	ErrAuthorRequired     = errors.New("review: author is required")
	ErrCampgroundRequired = errors.New("review: campground is required")
	ErrBodyRequired       = errors.New("review: body is required")
	ErrInvalidRating      = errors.New("review: rating must be between 1 and 5")
)

type ID string

func NewID() ID {
	return ID(primitive.NewObjectID().Hex())
}

// ParseID validates the identifier format before any storage access.
func ParseID(raw string) (ID, error) {
	if _, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw)); err != nil {
		return "", ErrMalformedID
	}
	return ID(strings.TrimSpace(raw)), nil
}

// Ref converts the id into the reference form held by the campground side
// of the bidirectional link.
func (id ID) Ref() campground.ReviewRef {
	return campground.ReviewRef(id)
}

// Review is immutable once posted; only deletion is supported.
type Review struct {
	ID         ID
	Campground campground.ID
	Author     user.ID
	Body       string
	Rating     int
	CreatedAt  time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Review, error)
	ByIDs(ctx context.Context, ids []ID) ([]*Review, error)
	Save(ctx context.Context, rev *Review) error
	Delete(ctx context.Context, id ID) error
}

type PostParams struct {
	ID         ID
	Campground campground.ID
	Author     user.ID
	Body       string
	Rating     int
	Now        time.Time
}

func Post(params PostParams) (*Review, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.Campground)) == "" {
		return nil, ErrCampgroundRequired
	}
	if strings.TrimSpace(string(params.Author)) == "" {
		return nil, ErrAuthorRequired
	}
	if strings.TrimSpace(params.Body) == "" {
		return nil, ErrBodyRequired
	}
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	rev := &Review{
		ID:         params.ID,
		Campground: params.Campground,
		Author:     params.Author,
		Body:       strings.TrimSpace(params.Body),
		Rating:     params.Rating,
		CreatedAt:  now.UTC(),
	}
	rev.Record(PostedEvent{ReviewID: rev.ID, CampgroundID: rev.Campground, Author: rev.Author, Rating: rev.Rating, At: rev.CreatedAt})
	return rev, nil
}

type PostedEvent struct {
	ReviewID     ID            `json:"review_id"`
	CampgroundID campground.ID `json:"campground_id"`
	Author       user.ID       `json:"author_id"`
	Rating       int           `json:"rating"`
	At           time.Time     `json:"at"`
}

func (e PostedEvent) EventName() string     { return "review.posted" }
func (e PostedEvent) AggregateID() string   { return string(e.ReviewID) }
func (e PostedEvent) OccurredAt() time.Time { return e.At }

type DeletedEvent struct {
	ReviewID     ID            `json:"review_id"`
	CampgroundID campground.ID `json:"campground_id"`
	At           time.Time     `json:"at"`
}

func (e DeletedEvent) EventName() string     { return "review.deleted" }
func (e DeletedEvent) AggregateID() string   { return string(e.ReviewID) }
func (e DeletedEvent) OccurredAt() time.Time { return e.At }
