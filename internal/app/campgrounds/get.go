package campgrounds

import (
	"context"

	"trailblaze/internal/app/dto"
	"trailblaze/internal/app/queries"
	"trailblaze/internal/app/uow"
	domaincampground "trailblaze/internal/domain/campground"
	domainreview "trailblaze/internal/domain/review"
	domainuser "trailblaze/internal/domain/user"
)

const getCampgroundKey = "campgrounds.get"

type GetCampgroundQuery struct {
	CampgroundID string
}

func (q GetCampgroundQuery) Key() string { return getCampgroundKey }

// GetCampgroundHandler loads a campground with its reviews resolved, each
// review's author resolved too. Malformed ids fail before any store access.
type GetCampgroundHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetCampgroundHandler) Handle(ctx context.Context, query GetCampgroundQuery) (*dto.CampgroundDetail, error) {
	id, err := domaincampground.ParseID(query.CampgroundID)
	if err != nil {
		return nil, err
	}
	unit, err := h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer func() { _ = unit.Rollback(ctx) }()

	cg, err := unit.Campgrounds().ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviewIDs := make([]domainreview.ID, 0, len(cg.Reviews))
	for _, ref := range cg.Reviews {
		reviewIDs = append(reviewIDs, domainreview.ID(ref))
	}
	reviews, err := unit.Reviews().ByIDs(ctx, reviewIDs)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]domainuser.ID, 0, len(reviews))
	for _, rev := range reviews {
		authorIDs = append(authorIDs, rev.Author)
	}
	authors, err := unit.Users().ByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	detail := dto.CampgroundDetail{
		Campground: dto.MapCampground(cg),
		Reviews:    make([]dto.Review, 0, len(reviews)),
	}
	for _, rev := range reviews {
		detail.Reviews = append(detail.Reviews, dto.MapReview(rev, authors[rev.Author]))
	}
	return &detail, nil
}

var _ queries.Handler[GetCampgroundQuery, *dto.CampgroundDetail] = (*GetCampgroundHandler)(nil)
