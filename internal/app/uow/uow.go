package uow

import (
	"context"

	domaincampground "trailblaze/internal/domain/campground"
	domainreview "trailblaze/internal/domain/review"
	domainuser "trailblaze/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary. The
// review-post and review-delete flows write two records (the review and the
// campground's reference list); the unit of work is the boundary that keeps
// them together on transactional stores.
type UnitOfWork interface {
	Campgrounds() domaincampground.Repository
	Reviews() domainreview.Repository
	Users() domainuser.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
