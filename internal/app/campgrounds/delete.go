package campgrounds

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"trailblaze/internal/app/authz"
	"trailblaze/internal/app/commands"
	appoutbox "trailblaze/internal/app/outbox"
	"trailblaze/internal/app/uow"
	domaincampground "trailblaze/internal/domain/campground"
	"trailblaze/internal/domain/shared/events"
	domainuser "trailblaze/internal/domain/user"
)

const deleteCampgroundKey = "campgrounds.delete"

type DeleteCampgroundCommand struct {
	CampgroundID string
	ActorID      string
}

func (c DeleteCampgroundCommand) Key() string { return deleteCampgroundKey }

// DeleteCampgroundHandler removes the record only. Reviews referencing the
// campground and photo objects in storage are left orphaned; the decision is
// surfaced in the deletion event and a warning log rather than hidden.
type DeleteCampgroundHandler struct {
	Outbox  appoutbox.Outbox
	Encoder appoutbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *DeleteCampgroundHandler) Handle(ctx context.Context, cmd DeleteCampgroundCommand) (*struct{}, error) {
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

	if err := unit.Campgrounds().Delete(ctx, id); err != nil {
		return nil, err
	}

	now := h.now()
	event := domaincampground.DeletedEvent{
		CampgroundID:    cg.ID,
		Owner:           cg.Owner,
		OrphanedReviews: len(cg.Reviews),
		OrphanedPhotos:  len(cg.Photos),
		At:              now.UTC(),
	}
	if err := appoutbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{event}); err != nil && h.Logger != nil {
		h.Logger.Warn("domain events not recorded", "campground_id", cg.ID, "error", err)
	}

	if h.Logger != nil {
		h.Logger.Warn("campground deleted, reviews and photo objects left orphaned",
			"campground_id", cg.ID, "actor_id", cmd.ActorID,
			"orphaned_reviews", len(cg.Reviews), "orphaned_photos", len(cg.Photos))
	}
	return &struct{}{}, nil
}

func (h *DeleteCampgroundHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ commands.Handler[DeleteCampgroundCommand, *struct{}] = (*DeleteCampgroundHandler)(nil)
