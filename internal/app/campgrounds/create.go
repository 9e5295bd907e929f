package campgrounds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trailblaze/internal/app/commands"
	"trailblaze/internal/app/dto"
	"trailblaze/internal/app/forms"
	appoutbox "trailblaze/internal/app/outbox"
	"trailblaze/internal/app/uow"
	domaincampground "trailblaze/internal/domain/campground"
	domainuser "trailblaze/internal/domain/user"
	"trailblaze/internal/infra/geo"
	"trailblaze/internal/infra/storage/s3"
)

const createCampgroundKey = "campgrounds.create"

var ErrOwnerRequired = errors.New("campgrounds: owner id is required")

type CreateCampgroundCommand struct {
	OwnerID string
	Form    forms.CampgroundForm
	Photos  []PhotoUpload
}

func (c CreateCampgroundCommand) Key() string { return createCampgroundKey }

// CreateCampgroundHandler validates the form, resolves coordinates, stores
// photos and persists the campground. The geocode call comes first: the
// record is only written once coordinates are in hand, so a gateway failure
// leaves nothing behind.
type CreateCampgroundHandler struct {
	Geocoder geo.Geocoder
	Storage  s3.Storage
	Outbox   appoutbox.Outbox
	Encoder  appoutbox.EventEncoder
	Logger   *slog.Logger
	Now      func() time.Time
}

func (h *CreateCampgroundHandler) Handle(ctx context.Context, cmd CreateCampgroundCommand) (*dto.Campground, error) {
	if strings.TrimSpace(cmd.OwnerID) == "" {
		return nil, ErrOwnerRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	if err := cmd.Form.Validate(); err != nil {
		return nil, err
	}

	geometry, err := h.forward(ctx, cmd.Form.Location)
	if err != nil {
		return nil, err
	}

	id := domaincampground.NewID()
	photos, err := storePhotos(ctx, h.Storage, id, cmd.Photos, h.Logger)
	if err != nil {
		return nil, err
	}

	cg, err := domaincampground.New(domaincampground.CreateParams{
		ID:          id,
		Owner:       domainuser.ID(cmd.OwnerID),
		Title:       cmd.Form.Title,
		Location:    cmd.Form.Location,
		Geometry:    geometry,
		Price:       cmd.Form.Price,
		Description: cmd.Form.Description,
		Photos:      photos,
		Now:         h.now(),
	})
	if err != nil {
		discardPhotos(ctx, h.Storage, photos, h.Logger)
		return nil, err
	}

	if err := unit.Campgrounds().Save(ctx, cg); err != nil {
		discardPhotos(ctx, h.Storage, photos, h.Logger)
		return nil, err
	}

	if err := appoutbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, cg.PendingEvents()); err != nil && h.Logger != nil {
		h.Logger.Warn("domain events not recorded", "campground_id", cg.ID, "error", err)
	}
	cg.ClearEvents()

	if h.Logger != nil {
		h.Logger.Info("campground created", "campground_id", cg.ID, "owner_id", cmd.OwnerID, "photos", len(photos))
	}
	result := dto.MapCampground(cg)
	return &result, nil
}

func (h *CreateCampgroundHandler) forward(ctx context.Context, location string) (domaincampground.Geometry, error) {
	if h.Geocoder == nil {
		return domaincampground.Geometry{}, fmt.Errorf("%w: geocoder unavailable", ErrGeocode)
	}
	geometry, err := h.Geocoder.Forward(ctx, location)
	if err != nil {
		return domaincampground.Geometry{}, fmt.Errorf("%w: %w", ErrGeocode, err)
	}
	return geometry, nil
}

func (h *CreateCampgroundHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ commands.Handler[CreateCampgroundCommand, *dto.Campground] = (*CreateCampgroundHandler)(nil)
