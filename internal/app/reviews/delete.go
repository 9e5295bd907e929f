package reviews

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"trailblaze/internal/app/authz"
	"trailblaze/internal/app/commands"
	appoutbox "trailblaze/internal/app/outbox"
	"trailblaze/internal/app/uow"
	domaincampground "trailblaze/internal/domain/campground"
	domainreview "trailblaze/internal/domain/review"
	"trailblaze/internal/domain/shared/events"
	domainuser "trailblaze/internal/domain/user"
)

const deleteReviewKey = "reviews.delete"

type DeleteReviewCommand struct {
	CampgroundID string
	ReviewID     string
	ActorID      string
}

func (c DeleteReviewCommand) Key() string { return deleteReviewKey }

// DeleteReviewHandler removes the campground's reference first and then the
// review record, so the review never outlives its back-reference removal.
// Author-only: a denied decision stops the flow before any write.
type DeleteReviewHandler struct {
	Outbox  appoutbox.Outbox
	Encoder appoutbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *DeleteReviewHandler) Handle(ctx context.Context, cmd DeleteReviewCommand) (*struct{}, error) {
	cgID, err := domaincampground.ParseID(cmd.CampgroundID)
	if err != nil {
		return nil, err
	}
	revID, err := domainreview.ParseID(cmd.ReviewID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cmd.ActorID) == "" {
		return nil, ErrAuthorRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	rev, err := unit.Reviews().ByID(ctx, revID)
	if err != nil {
		return nil, err
	}
	if rev.Campground != cgID {
		return nil, domainreview.ErrNotFound
	}
	if !authz.Author(rev, domainuser.ID(cmd.ActorID)).Allowed() {
		return nil, authz.ErrNotAuthor
	}

	now := h.now()
	cg, err := unit.Campgrounds().ByID(ctx, cgID)
	switch {
	case err == nil:
		if cg.DetachReview(revID.Ref(), now) {
			if err := unit.Campgrounds().Save(ctx, cg); err != nil {
				return nil, err
			}
		}
	case errors.Is(err, domaincampground.ErrNotFound):
		// The campground was deleted out from under the review; nothing to
		// detach, just reap the orphan record.
	default:
		return nil, err
	}

	if err := unit.Reviews().Delete(ctx, revID); err != nil {
		return nil, err
	}

	event := domainreview.DeletedEvent{ReviewID: revID, CampgroundID: cgID, At: now.UTC()}
	if err := appoutbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{event}); err != nil && h.Logger != nil {
		h.Logger.Warn("domain events not recorded", "review_id", revID, "error", err)
	}

	if h.Logger != nil {
		h.Logger.Info("review deleted", "review_id", revID, "campground_id", cgID, "actor_id", cmd.ActorID)
	}
	return &struct{}{}, nil
}

func (h *DeleteReviewHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ commands.Handler[DeleteReviewCommand, *struct{}] = (*DeleteReviewHandler)(nil)
