package authz

import (
	"testing"

	"trailblaze/internal/domain/campground"
	"trailblaze/internal/domain/review"
	"trailblaze/internal/domain/user"
)

func TestOwner_AllowsOwner(t *testing.T) {
	owner := user.NewID()
	cg := &campground.Campground{ID: campground.NewID(), Owner: owner}
	if !Owner(cg, owner).Allowed() {
		t.Fatalf("expected owner to be allowed")
	}
}

func TestOwner_DeniesOthers(t *testing.T) {
	cg := &campground.Campground{ID: campground.NewID(), Owner: user.NewID()}
	if Owner(cg, user.NewID()).Allowed() {
		t.Fatalf("expected non-owner to be denied")
	}
}

func TestOwner_DeniesEmptyPrincipalAndNilAggregate(t *testing.T) {
	cg := &campground.Campground{ID: campground.NewID(), Owner: user.NewID()}
	if Owner(cg, "").Allowed() {
		t.Fatalf("expected empty principal to be denied")
	}
	if Owner(nil, user.NewID()).Allowed() {
		t.Fatalf("expected nil campground to be denied")
	}
}

func TestAuthor_AllowsAuthorOnly(t *testing.T) {
	author := user.NewID()
	rev := &review.Review{ID: review.NewID(), Author: author}
	if !Author(rev, author).Allowed() {
		t.Fatalf("expected author to be allowed")
	}
	if Author(rev, user.NewID()).Allowed() {
		t.Fatalf("expected non-author to be denied")
	}
}
