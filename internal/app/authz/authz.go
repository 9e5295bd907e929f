package authz

import (
	"errors"
	"strings"

	"trailblaze/internal/domain/campground"
	"trailblaze/internal/domain/review"
	"trailblaze/internal/domain/user"
)

var (
	ErrNotOwner  = errors.New("authz: principal does not own campground")
	ErrNotAuthor = errors.New("authz: principal did not author review")
)

// Decision is the tagged result of an authorization check. Callers must
// branch on it; a Denied decision is a hard stop before any write.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) Allowed() bool { return d == Allowed }

// Owner reports whether the principal owns the campground. Ownership is
// plain value equality on the typed identifier.
func Owner(cg *campground.Campground, principal user.ID) Decision {
	if cg == nil || emptyID(principal) {
		return Denied
	}
	if cg.Owner == principal {
		return Allowed
	}
	return Denied
}

// Author reports whether the principal authored the review.
func Author(rev *review.Review, principal user.ID) Decision {
	if rev == nil || emptyID(principal) {
		return Denied
	}
	if rev.Author == principal {
		return Allowed
	}
	return Denied
}

func emptyID(id user.ID) bool {
	return strings.TrimSpace(string(id)) == ""
}
