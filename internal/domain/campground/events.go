package campground

import (
	"time"

	"trailblaze/internal/domain/user"
)

type CreatedEvent struct {
	CampgroundID ID        `json:"campground_id"`
	Owner        user.ID   `json:"owner_id"`
	At           time.Time `json:"at"`
}

func (e CreatedEvent) EventName() string     { return "campground.created" }
func (e CreatedEvent) AggregateID() string   { return string(e.CampgroundID) }
func (e CreatedEvent) OccurredAt() time.Time { return e.At }

type UpdatedEvent struct {
	CampgroundID ID        `json:"campground_id"`
	At           time.Time `json:"at"`
}

func (e UpdatedEvent) EventName() string     { return "campground.updated" }
func (e UpdatedEvent) AggregateID() string   { return string(e.CampgroundID) }
func (e UpdatedEvent) OccurredAt() time.Time { return e.At }

type DeletedEvent struct {
	CampgroundID    ID        `json:"campground_id"`
	Owner           user.ID   `json:"owner_id"`
	OrphanedReviews int       `json:"orphaned_reviews"`
	OrphanedPhotos  int       `json:"orphaned_photos"`
	At              time.Time `json:"at"`
}

func (e DeletedEvent) EventName() string     { return "campground.deleted" }
func (e DeletedEvent) AggregateID() string   { return string(e.CampgroundID) }
func (e DeletedEvent) OccurredAt() time.Time { return e.At }
