package campgrounds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trailblaze/internal/app/authz"
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

const updateCampgroundKey = "campgrounds.update"

var ErrActorRequired = errors.New("campgrounds: acting principal is required")

type UpdateCampgroundCommand struct {
	CampgroundID string
	ActorID      string
	Form         forms.CampgroundForm
	NewPhotos    []PhotoUpload
	RemovePhotos []string
}

func (c UpdateCampgroundCommand) Key() string { return updateCampgroundKey }

// UpdateCampgroundHandler re-resolves coordinates on every update, even when
// the location text is unchanged, appends new photos after the existing
// sequence and pulls removed locators out atomically with the metadata write.
type UpdateCampgroundHandler struct {
	Geocoder geo.Geocoder
	Storage  s3.Storage
	Outbox   appoutbox.Outbox
	Encoder  appoutbox.EventEncoder
	Logger   *slog.Logger
	Now      func() time.Time
}

func (h *UpdateCampgroundHandler) Handle(ctx context.Context, cmd UpdateCampgroundCommand) (*dto.Campground, error) {
	id, err := domaincampground.ParseID(cmd.CampgroundID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cmd.ActorID) == "" {
		return nil, ErrActorRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	cg, err := unit.Campgrounds().ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.Owner(cg, domainuser.ID(cmd.ActorID)).Allowed() {
		return nil, authz.ErrNotOwner
	}
	if err := cmd.Form.Validate(); err != nil {
		return nil, err
	}

	if h.Geocoder == nil {
		return nil, fmt.Errorf("%w: geocoder unavailable", ErrGeocode)
	}
	geometry, err := h.Geocoder.Forward(ctx, cmd.Form.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeocode, err)
	}

	added, err := storePhotos(ctx, h.Storage, id, cmd.NewPhotos, h.Logger)
	if err != nil {
		return nil, err
	}

	now := h.now()
	if err := cg.Update(domaincampground.UpdateParams{
		Title:       cmd.Form.Title,
		Location:    cmd.Form.Location,
		Geometry:    geometry,
		Price:       cmd.Form.Price,
		Description: cmd.Form.Description,
		Now:         now,
	}); err != nil {
		discardPhotos(ctx, h.Storage, added, h.Logger)
		return nil, err
	}
	cg.AddPhotos(added, now)
	removed := cg.RemovePhotos(cmd.RemovePhotos, now)

	if err := unit.Campgrounds().Save(ctx, cg); err != nil {
		discardPhotos(ctx, h.Storage, added, h.Logger)
		return nil, err
	}

	// Physical deletion follows the logical removal and is best-effort; a
	// straggling object never blocks the record update.
	discardPhotos(ctx, h.Storage, removed, h.Logger)

	if err := appoutbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, cg.PendingEvents()); err != nil && h.Logger != nil {
		h.Logger.Warn("domain events not recorded", "campground_id", cg.ID, "error", err)
	}
	cg.ClearEvents()

	if h.Logger != nil {
		h.Logger.Info("campground updated", "campground_id", cg.ID, "actor_id", cmd.ActorID, "photos_added", len(added), "photos_removed", len(removed))
	}
	result := dto.MapCampground(cg)
	return &result, nil
}

func (h *UpdateCampgroundHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ commands.Handler[UpdateCampgroundCommand, *dto.Campground] = (*UpdateCampgroundHandler)(nil)
