package campgrounds

import (
	"context"

	"trailblaze/internal/app/dto"
	"trailblaze/internal/app/queries"
	"trailblaze/internal/app/uow"
)

const listCampgroundsKey = "campgrounds.list"

type ListCampgroundsQuery struct{}

func (q ListCampgroundsQuery) Key() string { return listCampgroundsKey }

type ListCampgroundsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListCampgroundsHandler) Handle(ctx context.Context, query ListCampgroundsQuery) (*dto.CampgroundCollection, error) {
	unit, err := h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer func() { _ = unit.Rollback(ctx) }()

	items, err := unit.Campgrounds().List(ctx)
	if err != nil {
		return nil, err
	}
	collection := dto.CampgroundCollection{
		Items: make([]dto.Campground, 0, len(items)),
		Total: len(items),
	}
	for _, cg := range items {
		collection.Items = append(collection.Items, dto.MapCampground(cg))
	}
	return &collection, nil
}

var _ queries.Handler[ListCampgroundsQuery, *dto.CampgroundCollection] = (*ListCampgroundsHandler)(nil)
