package memory

import (
	"context"
	"sort"
	"sync"

	domaincampground "trailblaze/internal/domain/campground"
	domainreview "trailblaze/internal/domain/review"
)

// CampgroundRepository is an in-memory implementation for dev and tests.
type CampgroundRepository struct {
	mu    sync.RWMutex
	items map[domaincampground.ID]*domaincampground.Campground
}

func NewCampgroundRepository() *CampgroundRepository {
	return &CampgroundRepository{
		items: make(map[domaincampground.ID]*domaincampground.Campground),
	}
}

func (r *CampgroundRepository) ByID(ctx context.Context, id domaincampground.ID) (*domaincampground.Campground, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cg, ok := r.items[id]
	if !ok {
		return nil, domaincampground.ErrNotFound
	}
	return cloneCampground(cg), nil
}

func (r *CampgroundRepository) Save(ctx context.Context, cg *domaincampground.Campground) error {
	if cg == nil || cg.ID == "" {
		return domaincampground.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[cg.ID] = cloneCampground(cg)
	return nil
}

func (r *CampgroundRepository) Delete(ctx context.Context, id domaincampground.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domaincampground.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *CampgroundRepository) List(ctx context.Context) ([]*domaincampground.Campground, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaincampground.Campground, 0, len(r.items))
	for _, cg := range r.items {
		out = append(out, cloneCampground(cg))
	}
	// Newest first, ties broken by id for a stable order.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func cloneCampground(cg *domaincampground.Campground) *domaincampground.Campground {
	if cg == nil {
		return nil
	}
	clone := *cg
	clone.Photos = append([]domaincampground.Photo(nil), cg.Photos...)
	clone.Reviews = append([]domaincampground.ReviewRef(nil), cg.Reviews...)
	clone.ClearEvents()
	return &clone
}

// ReviewRepository keeps review records in memory.
type ReviewRepository struct {
	mu    sync.RWMutex
	items map[domainreview.ID]*domainreview.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		items: make(map[domainreview.ID]*domainreview.Review),
	}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreview.ID) (*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rev, ok := r.items[id]
	if !ok {
		return nil, domainreview.ErrNotFound
	}
	return cloneReview(rev), nil
}

// ByIDs resolves the given ids, preserving input order and skipping ids that
// no longer resolve to a record.
func (r *ReviewRepository) ByIDs(ctx context.Context, ids []domainreview.ID) ([]*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreview.Review, 0, len(ids))
	for _, id := range ids {
		if rev, ok := r.items[id]; ok {
			out = append(out, cloneReview(rev))
		}
	}
	return out, nil
}

func (r *ReviewRepository) Save(ctx context.Context, rev *domainreview.Review) error {
	if rev == nil || rev.ID == "" {
		return domainreview.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rev.ID] = cloneReview(rev)
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreview.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainreview.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneReview(rev *domainreview.Review) *domainreview.Review {
	if rev == nil {
		return nil
	}
	clone := *rev
	clone.ClearEvents()
	return &clone
}

var _ domaincampground.Repository = (*CampgroundRepository)(nil)
var _ domainreview.Repository = (*ReviewRepository)(nil)
