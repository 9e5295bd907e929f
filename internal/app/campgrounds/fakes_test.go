package campgrounds

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"

	"trailblaze/internal/app/uow"
	domaincampground "trailblaze/internal/domain/campground"
	domainreview "trailblaze/internal/domain/review"
	domainuser "trailblaze/internal/domain/user"
	"trailblaze/internal/infra/storage/s3"
)

// countingCampgroundRepo records every call so tests can assert that denied
// or malformed requests never touch storage.
type countingCampgroundRepo struct {
	items map[domaincampground.ID]*domaincampground.Campground

	byIDCalls   int
	saveCalls   int
	deleteCalls int
	listCalls   int

	failSave error
}

func newCountingCampgroundRepo() *countingCampgroundRepo {
	return &countingCampgroundRepo{items: make(map[domaincampground.ID]*domaincampground.Campground)}
}

func (r *countingCampgroundRepo) ByID(ctx context.Context, id domaincampground.ID) (*domaincampground.Campground, error) {
	r.byIDCalls++
	cg, ok := r.items[id]
	if !ok {
		return nil, domaincampground.ErrNotFound
	}
	clone := *cg
	clone.Photos = append([]domaincampground.Photo(nil), cg.Photos...)
	clone.Reviews = append([]domaincampground.ReviewRef(nil), cg.Reviews...)
	return &clone, nil
}

func (r *countingCampgroundRepo) Save(ctx context.Context, cg *domaincampground.Campground) error {
	r.saveCalls++
	if r.failSave != nil {
		return r.failSave
	}
	clone := *cg
	clone.Photos = append([]domaincampground.Photo(nil), cg.Photos...)
	clone.Reviews = append([]domaincampground.ReviewRef(nil), cg.Reviews...)
	r.items[cg.ID] = &clone
	return nil
}

func (r *countingCampgroundRepo) Delete(ctx context.Context, id domaincampground.ID) error {
	r.deleteCalls++
	if _, ok := r.items[id]; !ok {
		return domaincampground.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *countingCampgroundRepo) List(ctx context.Context) ([]*domaincampground.Campground, error) {
	r.listCalls++
	out := make([]*domaincampground.Campground, 0, len(r.items))
	for _, cg := range r.items {
		out = append(out, cg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type countingReviewRepo struct {
	items map[domainreview.ID]*domainreview.Review

	byIDCalls   int
	byIDsCalls  int
	saveCalls   int
	deleteCalls int
}

func newCountingReviewRepo() *countingReviewRepo {
	return &countingReviewRepo{items: make(map[domainreview.ID]*domainreview.Review)}
}

func (r *countingReviewRepo) ByID(ctx context.Context, id domainreview.ID) (*domainreview.Review, error) {
	r.byIDCalls++
	rev, ok := r.items[id]
	if !ok {
		return nil, domainreview.ErrNotFound
	}
	clone := *rev
	return &clone, nil
}

func (r *countingReviewRepo) ByIDs(ctx context.Context, ids []domainreview.ID) ([]*domainreview.Review, error) {
	r.byIDsCalls++
	out := make([]*domainreview.Review, 0, len(ids))
	for _, id := range ids {
		if rev, ok := r.items[id]; ok {
			clone := *rev
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *countingReviewRepo) Save(ctx context.Context, rev *domainreview.Review) error {
	r.saveCalls++
	clone := *rev
	r.items[rev.ID] = &clone
	return nil
}

func (r *countingReviewRepo) Delete(ctx context.Context, id domainreview.ID) error {
	r.deleteCalls++
	if _, ok := r.items[id]; !ok {
		return domainreview.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type stubUserRepo struct {
	items map[domainuser.ID]*domainuser.User
}

func newStubUserRepo(users ...*domainuser.User) *stubUserRepo {
	repo := &stubUserRepo{items: make(map[domainuser.ID]*domainuser.User)}
	for _, u := range users {
		repo.items[u.ID] = u
	}
	return repo
}

func (r *stubUserRepo) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) ByIDs(ctx context.Context, ids []domainuser.ID) (map[domainuser.ID]*domainuser.User, error) {
	out := make(map[domainuser.ID]*domainuser.User, len(ids))
	for _, id := range ids {
		if u, ok := r.items[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r *stubUserRepo) ByUsername(ctx context.Context, username string) (*domainuser.User, error) {
	for _, u := range r.items {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domainuser.ErrNotFound
}

func (r *stubUserRepo) Save(ctx context.Context, u *domainuser.User) error {
	r.items[u.ID] = u
	return nil
}

// testUnit is a no-isolation unit of work over the counting fakes.
type testUnit struct {
	campgrounds *countingCampgroundRepo
	reviews     *countingReviewRepo
	users       *stubUserRepo
}

func (u *testUnit) Campgrounds() domaincampground.Repository { return u.campgrounds }
func (u *testUnit) Reviews() domainreview.Repository         { return u.reviews }
func (u *testUnit) Users() domainuser.Repository             { return u.users }
func (u *testUnit) Commit(ctx context.Context) error         { return nil }
func (u *testUnit) Rollback(ctx context.Context) error       { return nil }

type testFactory struct {
	unit       *testUnit
	beginCalls int
}

func (f *testFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	f.beginCalls++
	return f.unit, nil
}

func ctxWithUnit(unit *testUnit) context.Context {
	return uow.ContextWithUnitOfWork(context.Background(), unit)
}

// scriptedGeocoder returns a fixed geometry or error and records queries.
type scriptedGeocoder struct {
	geometry domaincampground.Geometry
	err      error

	calls   int
	queries []string
}

func (g *scriptedGeocoder) Forward(ctx context.Context, query string) (domaincampground.Geometry, error) {
	g.calls++
	g.queries = append(g.queries, query)
	if g.err != nil {
		return domaincampground.Geometry{}, g.err
	}
	return g.geometry, nil
}

var errStorageDown = errors.New("storage down")

// fakeStorage records stored and removed object keys; failAt makes the n-th
// store call fail (1-based).
type fakeStorage struct {
	storeCalls int
	failAt     int
	stored     []string
	removed    []string
}

func (s *fakeStorage) Store(ctx context.Context, key string, reader io.Reader, contentType string) (s3.Object, error) {
	s.storeCalls++
	if s.failAt > 0 && s.storeCalls == s.failAt {
		return s3.Object{}, errStorageDown
	}
	s.stored = append(s.stored, key)
	return s3.Object{Key: key, URL: "http://storage.local/photos/" + key}, nil
}

func (s *fakeStorage) Remove(ctx context.Context, key string) error {
	s.removed = append(s.removed, key)
	return nil
}

func mustParseCampgroundID(t *testing.T, raw string) domaincampground.ID {
	t.Helper()
	id, err := domaincampground.ParseID(raw)
	if err != nil {
		t.Fatalf("bad campground id %q: %v", raw, err)
	}
	return id
}

func austinGeometry() domaincampground.Geometry {
	return domaincampground.Geometry{Type: "Point", Coordinates: [2]float64{-97.7431, 30.2672}}
}
