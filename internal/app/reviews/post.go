package reviews

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"trailblaze/internal/app/commands"
	"trailblaze/internal/app/dto"
	"trailblaze/internal/app/forms"
	appoutbox "trailblaze/internal/app/outbox"
	"trailblaze/internal/app/uow"
	domaincampground "trailblaze/internal/domain/campground"
	domainreview "trailblaze/internal/domain/review"
	domainuser "trailblaze/internal/domain/user"
)

const postReviewKey = "reviews.post"

var ErrAuthorRequired = errors.New("reviews: acting principal is required")

type PostReviewCommand struct {
	CampgroundID string
	AuthorID     string
	Form         forms.ReviewForm
}

func (c PostReviewCommand) Key() string { return postReviewKey }

// PostReviewHandler persists the review and appends its reference to the
// campground as one logical unit. The unit of work covers both writes on
// transactional stores; on stores without that guarantee a failed append
// triggers a compensating delete so no orphan review survives.
type PostReviewHandler struct {
	Outbox  appoutbox.Outbox
	Encoder appoutbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *PostReviewHandler) Handle(ctx context.Context, cmd PostReviewCommand) (*dto.Review, error) {
	cgID, err := domaincampground.ParseID(cmd.CampgroundID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cmd.AuthorID) == "" {
		return nil, ErrAuthorRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	cg, err := unit.Campgrounds().ByID(ctx, cgID)
	if err != nil {
		return nil, err
	}
	if err := cmd.Form.Validate(); err != nil {
		return nil, err
	}

	now := h.now()
	rev, err := domainreview.Post(domainreview.PostParams{
		ID:         domainreview.NewID(),
		Campground: cg.ID,
		Author:     domainuser.ID(cmd.AuthorID),
		Body:       cmd.Form.Body,
		Rating:     cmd.Form.Rating,
		Now:        now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Reviews().Save(ctx, rev); err != nil {
		return nil, err
	}
	cg.AttachReview(rev.ID.Ref(), now)
	if err := unit.Campgrounds().Save(ctx, cg); err != nil {
		// Compensating cleanup: the reference append failed, so the review
		// record must not survive on its own.
		if cleanupErr := unit.Reviews().Delete(ctx, rev.ID); cleanupErr != nil && h.Logger != nil {
			h.Logger.Error("orphan review left behind after failed attach", "review_id", rev.ID, "campground_id", cg.ID, "error", cleanupErr)
		}
		return nil, err
	}

	if err := appoutbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, rev.PendingEvents()); err != nil && h.Logger != nil {
		h.Logger.Warn("domain events not recorded", "review_id", rev.ID, "error", err)
	}
	rev.ClearEvents()

	author, err := unit.Users().ByID(ctx, rev.Author)
	if err != nil && !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("review posted", "review_id", rev.ID, "campground_id", cg.ID, "author_id", cmd.AuthorID, "rating", rev.Rating)
	}
	result := dto.MapReview(rev, author)
	return &result, nil
}

func (h *PostReviewHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ commands.Handler[PostReviewCommand, *dto.Review] = (*PostReviewHandler)(nil)
