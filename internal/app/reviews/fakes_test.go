package reviews

import (
	"context"
	"testing"
	"time"

	"trailblaze/internal/app/uow"
	domaincampground "trailblaze/internal/domain/campground"
	domainreview "trailblaze/internal/domain/review"
	domainuser "trailblaze/internal/domain/user"
)

type trackedCampgroundRepo struct {
	items     map[domaincampground.ID]*domaincampground.Campground
	byIDCalls int
	saveCalls int
	failSave  error
}

func newTrackedCampgroundRepo() *trackedCampgroundRepo {
	return &trackedCampgroundRepo{items: make(map[domaincampground.ID]*domaincampground.Campground)}
}

func (r *trackedCampgroundRepo) ByID(ctx context.Context, id domaincampground.ID) (*domaincampground.Campground, error) {
	r.byIDCalls++
	cg, ok := r.items[id]
	if !ok {
		return nil, domaincampground.ErrNotFound
	}
	clone := *cg
	clone.Reviews = append([]domaincampground.ReviewRef(nil), cg.Reviews...)
	clone.Photos = append([]domaincampground.Photo(nil), cg.Photos...)
	clone.ClearEvents()
	return &clone, nil
}

func (r *trackedCampgroundRepo) Save(ctx context.Context, cg *domaincampground.Campground) error {
	r.saveCalls++
	if r.failSave != nil {
		return r.failSave
	}
	clone := *cg
	clone.Reviews = append([]domaincampground.ReviewRef(nil), cg.Reviews...)
	clone.Photos = append([]domaincampground.Photo(nil), cg.Photos...)
	clone.ClearEvents()
	r.items[cg.ID] = &clone
	return nil
}

func (r *trackedCampgroundRepo) Delete(ctx context.Context, id domaincampground.ID) error {
	if _, ok := r.items[id]; !ok {
		return domaincampground.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *trackedCampgroundRepo) List(ctx context.Context) ([]*domaincampground.Campground, error) {
	out := make([]*domaincampground.Campground, 0, len(r.items))
	for _, cg := range r.items {
		out = append(out, cg)
	}
	return out, nil
}

type trackedReviewRepo struct {
	items       map[domainreview.ID]*domainreview.Review
	saveCalls   int
	deleteCalls int
	failDelete  error
}

func newTrackedReviewRepo() *trackedReviewRepo {
	return &trackedReviewRepo{items: make(map[domainreview.ID]*domainreview.Review)}
}

func (r *trackedReviewRepo) ByID(ctx context.Context, id domainreview.ID) (*domainreview.Review, error) {
	rev, ok := r.items[id]
	if !ok {
		return nil, domainreview.ErrNotFound
	}
	clone := *rev
	clone.ClearEvents()
	return &clone, nil
}

func (r *trackedReviewRepo) ByIDs(ctx context.Context, ids []domainreview.ID) ([]*domainreview.Review, error) {
	out := make([]*domainreview.Review, 0, len(ids))
	for _, id := range ids {
		if rev, ok := r.items[id]; ok {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (r *trackedReviewRepo) Save(ctx context.Context, rev *domainreview.Review) error {
	r.saveCalls++
	clone := *rev
	clone.ClearEvents()
	r.items[rev.ID] = &clone
	return nil
}

func (r *trackedReviewRepo) Delete(ctx context.Context, id domainreview.ID) error {
	r.deleteCalls++
	if r.failDelete != nil {
		return r.failDelete
	}
	if _, ok := r.items[id]; !ok {
		return domainreview.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fixedUserRepo struct {
	users map[domainuser.ID]*domainuser.User
}

func newFixedUserRepo(users ...*domainuser.User) *fixedUserRepo {
	repo := &fixedUserRepo{users: make(map[domainuser.ID]*domainuser.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fixedUserRepo) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return u, nil
}

func (r *fixedUserRepo) ByIDs(ctx context.Context, ids []domainuser.ID) (map[domainuser.ID]*domainuser.User, error) {
	out := make(map[domainuser.ID]*domainuser.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r *fixedUserRepo) ByUsername(ctx context.Context, username string) (*domainuser.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domainuser.ErrNotFound
}

func (r *fixedUserRepo) Save(ctx context.Context, u *domainuser.User) error {
	r.users[u.ID] = u
	return nil
}

type fakeUnit struct {
	campgrounds *trackedCampgroundRepo
	reviews     *trackedReviewRepo
	users       *fixedUserRepo
}

func (u *fakeUnit) Campgrounds() domaincampground.Repository { return u.campgrounds }
func (u *fakeUnit) Reviews() domainreview.Repository         { return u.reviews }
func (u *fakeUnit) Users() domainuser.Repository             { return u.users }
func (u *fakeUnit) Commit(ctx context.Context) error         { return nil }
func (u *fakeUnit) Rollback(ctx context.Context) error       { return nil }

func newFakeUnit() *fakeUnit {
	return &fakeUnit{
		campgrounds: newTrackedCampgroundRepo(),
		reviews:     newTrackedReviewRepo(),
		users:       newFixedUserRepo(),
	}
}

func unitContext(unit *fakeUnit) context.Context {
	return uow.ContextWithUnitOfWork(context.Background(), unit)
}

func seedCampground(t *testing.T, repo *trackedCampgroundRepo, owner domainuser.ID) *domaincampground.Campground {
	t.Helper()
	cg, err := domaincampground.New(domaincampground.CreateParams{
		ID:       domaincampground.NewID(),
		Owner:    owner,
		Title:    "Riverbend Pines",
		Location: "Bend, OR",
		Geometry: domaincampground.Geometry{Type: "Point", Coordinates: [2]float64{-121.3153, 44.0582}},
		Price:    42,
		Now:      time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed campground: %v", err)
	}
	cg.ClearEvents()
	repo.items[cg.ID] = cg
	repo.byIDCalls = 0
	repo.saveCalls = 0
	return cg
}

func seedReview(t *testing.T, unit *fakeUnit, cg *domaincampground.Campground, author domainuser.ID) *domainreview.Review {
	t.Helper()
	rev, err := domainreview.Post(domainreview.PostParams{
		ID:         domainreview.NewID(),
		Campground: cg.ID,
		Author:     author,
		Body:       "Quiet even on weekends.",
		Rating:     5,
		Now:        time.Date(2026, 4, 11, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}
	rev.ClearEvents()
	unit.reviews.items[rev.ID] = rev
	cg.AttachReview(rev.ID.Ref(), time.Date(2026, 4, 11, 9, 0, 0, 0, time.UTC))
	unit.campgrounds.items[cg.ID] = cg
	unit.reviews.saveCalls = 0
	unit.reviews.deleteCalls = 0
	unit.campgrounds.saveCalls = 0
	return rev
}
