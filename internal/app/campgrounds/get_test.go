package campgrounds

import (
	"context"
	"errors"
	"testing"
	"time"

	domaincampground "trailblaze/internal/domain/campground"
	domainreview "trailblaze/internal/domain/review"
	domainuser "trailblaze/internal/domain/user"
)

func TestGet_MalformedIDFailsBeforeTransactionStarts(t *testing.T) {
	factory := &testFactory{unit: &testUnit{
		campgrounds: newCountingCampgroundRepo(),
		reviews:     newCountingReviewRepo(),
		users:       newStubUserRepo(),
	}}
	handler := &GetCampgroundHandler{UoWFactory: factory}

	_, err := handler.Handle(context.Background(), GetCampgroundQuery{CampgroundID: "nope"})
	if !errors.Is(err, domaincampground.ErrMalformedID) {
		t.Fatalf("expected ErrMalformedID, got %v", err)
	}
	if factory.beginCalls != 0 {
		t.Fatalf("transaction started for malformed id")
	}
}

func TestGet_ResolvesReviewsWithAuthorsInOrder(t *testing.T) {
	repo := newCountingCampgroundRepo()
	reviews := newCountingReviewRepo()
	alice := &domainuser.User{ID: domainuser.NewID(), Username: "alice", Email: "alice@example.com"}
	bob := &domainuser.User{ID: domainuser.NewID(), Username: "bob", Email: "bob@example.com"}
	users := newStubUserRepo(alice, bob)
	factory := &testFactory{unit: &testUnit{campgrounds: repo, reviews: reviews, users: users}}

	cg := seedCampground(t, repo, domainuser.NewID())
	for i, author := range []*domainuser.User{alice, bob} {
		rev, err := domainreview.Post(domainreview.PostParams{
			ID:         domainreview.NewID(),
			Campground: cg.ID,
			Author:     author.ID,
			Body:       "Nice place.",
			Rating:     4 + i%2,
			Now:        time.Now(),
		})
		if err != nil {
			t.Fatalf("seed review: %v", err)
		}
		reviews.items[rev.ID] = rev
		cg.AttachReview(rev.ID.Ref(), time.Now())
	}
	repo.items[cg.ID] = cg

	handler := &GetCampgroundHandler{UoWFactory: factory}
	detail, err := handler.Handle(context.Background(), GetCampgroundQuery{CampgroundID: string(cg.ID)})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(detail.Reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(detail.Reviews))
	}
	if detail.Reviews[0].Author != "alice" || detail.Reviews[1].Author != "bob" {
		t.Fatalf("authors not resolved in reference order: %v", detail.Reviews)
	}
	if detail.ReviewCount != 2 {
		t.Fatalf("review count mismatch: %d", detail.ReviewCount)
	}
}

func TestGet_MissingCampgroundReportsNotFound(t *testing.T) {
	factory := &testFactory{unit: &testUnit{
		campgrounds: newCountingCampgroundRepo(),
		reviews:     newCountingReviewRepo(),
		users:       newStubUserRepo(),
	}}
	handler := &GetCampgroundHandler{UoWFactory: factory}

	_, err := handler.Handle(context.Background(), GetCampgroundQuery{CampgroundID: string(domaincampground.NewID())})
	if !errors.Is(err, domaincampground.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_ReturnsEveryCampground(t *testing.T) {
	repo := newCountingCampgroundRepo()
	factory := &testFactory{unit: &testUnit{campgrounds: repo, reviews: newCountingReviewRepo(), users: newStubUserRepo()}}
	seedCampground(t, repo, domainuser.NewID())
	seedCampground(t, repo, domainuser.NewID())

	handler := &ListCampgroundsHandler{UoWFactory: factory}
	collection, err := handler.Handle(context.Background(), ListCampgroundsQuery{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if collection.Total != 2 || len(collection.Items) != 2 {
		t.Fatalf("expected 2 campgrounds, got total=%d items=%d", collection.Total, len(collection.Items))
	}
}
