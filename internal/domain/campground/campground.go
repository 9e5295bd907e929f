package campground

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"trailblaze/internal/domain/shared/events"
	"trailblaze/internal/domain/user"
)

var (
	ErrMalformedID      = errors.New("campground: malformed id")
	ErrNotFound         = errors.New("campground: not found")
	ErrIDRequired       = errors.New("campground: id is required")
	ErrOwnerRequired    = errors.New("campground: owner is required")
	ErrTitleRequired    = errors.New("campground: title is required")
	ErrLocationRequired = errors.New("campground: location is required")
	ErrGeometryRequired = errors.New("campground: geometry is required")
	ErrNegativePrice    = errors.New("campground: price must be non-negative")
)

type ID string

// ReviewRef is a reference to a review held on the campground side of the
// bidirectional link. The review aggregate owns the full record.
type ReviewRef string

// NewID mints an identifier in the storage layer's format.
func NewID() ID {
	return ID(primitive.NewObjectID().Hex())
}

// ParseID validates that raw is a well-formed identifier. It never touches
// storage; callers rely on it to reject garbage before any repository access.
func ParseID(raw string) (ID, error) {
	if _, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw)); err != nil {
		return "", ErrMalformedID
	}
	return ID(strings.TrimSpace(raw)), nil
}

// Geometry is the resolved GeoJSON geometry for the free-text location.
type Geometry struct {
	Type        string
	Coordinates [2]float64 // longitude, latitude
}

func (g Geometry) Zero() bool {
	return g.Type == "" && g.Coordinates[0] == 0 && g.Coordinates[1] == 0
}

/// Photo is a stored image: the object-store locator plus its public URL.
// Photos only exist embedded in a campground's ordered sequence.
type Photo struct {
	Filename string
	URL      string
}

type Campground struct {
	ID          ID
	Owner       user.ID
	Title       string
	Location    string
	Geometry    Geometry
	Price       float64
	Description string
	Photos      []Photo
	Reviews     []ReviewRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Campground, error)
	Save(ctx context.Context, cg *Campground) error
	Delete(ctx context.Context, id ID) error
	List(ctx context.Context) ([]*Campground, error)
}

type CreateParams struct {
	ID          ID
	Owner       user.ID
	Title       string
	Location    string
	Geometry    Geometry
	Price       float64
	Description string
	Photos      []Photo
	Now         time.Time
}

// New builds a campground. Geometry must already be resolved: a campground is
// never persisted with a location text but no coordinates.
func New(params CreateParams) (*Campground, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, ErrOwnerRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.Location) == "" {
		return nil, ErrLocationRequired
	}
	if params.Geometry.Zero() {
		return nil, ErrGeometryRequired
	}
	if params.Price < 0 {
		return nil, ErrNegativePrice
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	cg := &Campground{
		ID:          params.ID,
		Owner:       params.Owner,
		Title:       strings.TrimSpace(params.Title),
		Location:    strings.TrimSpace(params.Location),
		Geometry:    params.Geometry,
		Price:       params.Price,
		Description: strings.TrimSpace(params.Description),
		Photos:      append([]Photo(nil), params.Photos...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	cg.Record(CreatedEvent{CampgroundID: cg.ID, Owner: cg.Owner, At: now})
	return cg, nil
}

type UpdateParams struct {
	Title       string
	Location    string
	Geometry    Geometry
	Price       float64
	Description string
	Now         time.Time
}

// Update rewrites the metadata and the re-resolved geometry in one step so
// the location text and coordinates can never drift apart.
func (c *Campground) Update(params UpdateParams) error {
	if strings.TrimSpace(params.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(params.Location) == "" {
		return ErrLocationRequired
	}
	if params.Geometry.Zero() {
		return ErrGeometryRequired
	}
	if params.Price < 0 {
		return ErrNegativePrice
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	c.Title = strings.TrimSpace(params.Title)
	c.Location = strings.TrimSpace(params.Location)
	c.Geometry = params.Geometry
	c.Price = params.Price
	c.Description = strings.TrimSpace(params.Description)
	c.UpdatedAt = now
	c.Record(UpdatedEvent{CampgroundID: c.ID, At: now})
	return nil
}

// AddPhotos appends new photos after the existing sequence, preserving
// upload order. It never replaces the sequence wholesale.
func (c *Campground) AddPhotos(photos []Photo, now time.Time) {
	if len(photos) == 0 {
		return
	}
	c.Photos = append(c.Photos, photos...)
	c.touch(now)
}

// RemovePhotos pulls the photos with the given locators out of the sequence
// and returns them so the caller can decide about physical deletion.
func (c *Campground) RemovePhotos(filenames []string, now time.Time) []Photo {
	if len(filenames) == 0 {
		return nil
	}
	doomed := make(map[string]struct{}, len(filenames))
	for _, name := range filenames {
		name = strings.TrimSpace(name)
		if name != "" {
			doomed[name] = struct{}{}
		}
	}
	var removed []Photo
	kept := c.Photos[:0]
	for _, photo := range c.Photos {
		if _, ok := doomed[photo.Filename]; ok {
			removed = append(removed, photo)
			continue
		}
		kept = append(kept, photo)
	}
	if len(removed) == 0 {
		return nil
	}
	c.Photos = kept
	c.touch(now)
	return removed
}

// AttachReview appends a review reference. Duplicates are ignored.
func (c *Campground) AttachReview(ref ReviewRef, now time.Time) {
	for _, existing := range c.Reviews {
		if existing == ref {
			return
		}
	}
	c.Reviews = append(c.Reviews, ref)
	c.touch(now)
}

// DetachReview removes a review reference, reporting whether it was present.
func (c *Campground) DetachReview(ref ReviewRef, now time.Time) bool {
	for i, existing := range c.Reviews {
		if existing == ref {
			c.Reviews = append(c.Reviews[:i], c.Reviews[i+1:]...)
			c.touch(now)
			return true
		}
	}
	return false
}

func (c *Campground) HasReview(ref ReviewRef) bool {
	for _, existing := range c.Reviews {
		if existing == ref {
			return true
		}
	}
	return false
}

func (c *Campground) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	c.UpdatedAt = now.UTC()
}
