package review

import (
	"errors"
	"testing"
	"time"

	"trailblaze/internal/domain/campground"
	"trailblaze/internal/domain/user"
)

func validPostParams() PostParams {
	return PostParams{
		ID:         NewID(),
		Campground: campground.NewID(),
		Author:     user.NewID(),
		Body:       "Great spot, quiet at night.",
		Rating:     5,
		Now:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPost_RejectsRatingOutOfRange(t *testing.T) {
	for _, rating := range []int{0, -1, 6, 100} {
		params := validPostParams()
		params.Rating = rating
		if _, err := Post(params); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestPost_AcceptsBoundaryRatings(t *testing.T) {
	for _, rating := range []int{1, 5} {
		params := validPostParams()
		params.Rating = rating
		if _, err := Post(params); err != nil {
			t.Fatalf("rating %d: unexpected error %v", rating, err)
		}
	}
}

func TestPost_RejectsEmptyBody(t *testing.T) {
	params := validPostParams()
	params.Body = "   "
	if _, err := Post(params); !errors.Is(err, ErrBodyRequired) {
		t.Fatalf("expected ErrBodyRequired, got %v", err)
	}
}

func TestPost_RecordsPostedEvent(t *testing.T) {
	rev, err := Post(validPostParams())
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	pending := rev.PendingEvents()
	if len(pending) != 1 || pending[0].EventName() != "review.posted" {
		t.Fatalf("unexpected pending events %v", pending)
	}
}

func TestParseID_RejectsMalformed(t *testing.T) {
	if _, err := ParseID("garbage"); !errors.Is(err, ErrMalformedID) {
		t.Fatalf("expected ErrMalformedID, got %v", err)
	}
}

func TestRef_MatchesIdentifier(t *testing.T) {
	id := NewID()
	if string(id.Ref()) != string(id) {
		t.Fatalf("reference %q does not match id %q", id.Ref(), id)
	}
}
