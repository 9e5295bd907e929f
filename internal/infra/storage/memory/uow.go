package memory

import (
	"context"
	"errors"

	"trailblaze/internal/app/uow"
	domaincampground "trailblaze/internal/domain/campground"
	domainreview "trailblaze/internal/domain/review"
	domainuser "trailblaze/internal/domain/user"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	CampgroundRepo domaincampground.Repository
	ReviewRepo     domainreview.Repository
	UserRepo       domainuser.Repository
}

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports; the command handlers
// carry their own compensation for the multi-record flows.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.CampgroundRepo == nil || f.ReviewRepo == nil || f.UserRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		campgrounds: f.CampgroundRepo,
		reviews:     f.ReviewRepo,
		users:       f.UserRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	campgrounds domaincampground.Repository
	reviews     domainreview.Repository
	users       domainuser.Repository
}

func (u *Unit) Campgrounds() domaincampground.Repository {
	return u.campgrounds
}

func (u *Unit) Reviews() domainreview.Repository {
	return u.reviews
}

func (u *Unit) Users() domainuser.Repository {
	return u.users
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}

var _ uow.UoWFactory = (Factory{})
var _ uow.UnitOfWork = (*Unit)(nil)
