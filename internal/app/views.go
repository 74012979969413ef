package app

import (
	"context"
	"sync"
	"sync/atomic"

	"center_catalog/internal/domain"
)

// ViewService joins the center catalog with the comment store and the
// aggregator into render-ready CenterViews. Views are always a fresh
// projection of their inputs; nothing here caches or mutates one.
type ViewService struct {
	store   *CommentStore
	sync    *SyncService
	workers int

	mu      sync.Mutex
	catalog []domain.Center
	cancel  context.CancelFunc

	// version bumps on every store change or catalog swap; it backs the
	// list endpoint's conditional requests.
	version atomic.Int64
}

func NewViewService(store *CommentStore, sync *SyncService, workers int) *ViewService {
	v := &ViewService{store: store, sync: sync, workers: workers}
	store.OnChange(func(string) { v.version.Add(1) })
	return v
}

// SetCatalog replaces the center catalog and refreshes every center's
// comments in the background. The previous refresh, if still running, is
// canceled so its late results are discarded rather than applied against a
// catalog that no longer exists.
func (v *ViewService) SetCatalog(ctx context.Context, centers []domain.Center) {
	cp := make([]domain.Center, len(centers))
	copy(cp, centers)

	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.catalog = cp
	rctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()
	v.version.Add(1)

	go func() {
		defer cancel()
		v.sync.RefreshAll(rctx, cp, v.workers)
	}()
}

// Catalog returns a copy of the current center list.
func (v *ViewService) Catalog() []domain.Center {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]domain.Center, len(v.catalog))
	copy(out, v.catalog)
	return out
}

// Views projects the whole catalog, in catalog order.
func (v *ViewService) Views() []domain.CenterView {
	centers := v.Catalog()
	out := make([]domain.CenterView, 0, len(centers))
	for _, c := range centers {
		out = append(out, v.project(c))
	}
	return out
}

// ViewFor projects a single center; ok is false when the id is not in the
// catalog.
func (v *ViewService) ViewFor(centerID string) (domain.CenterView, bool) {
	v.mu.Lock()
	var center *domain.Center
	for i := range v.catalog {
		if v.catalog[i].ID == centerID {
			c := v.catalog[i]
			center = &c
			break
		}
	}
	v.mu.Unlock()

	if center == nil {
		return domain.CenterView{}, false
	}
	return v.project(*center), true
}

// Version identifies the current state of catalog + comment index.
func (v *ViewService) Version() int64 { return v.version.Load() }

func (v *ViewService) project(c domain.Center) domain.CenterView {
	comments := v.store.CommentsFor(c.ID)
	agg := Aggregate(comments)
	return domain.CenterView{
		Center:      c,
		Comments:    comments,
		Aggregate:   agg,
		RatingLabel: agg.RatingLabel(),
		RatingBand:  agg.RatingBand(),
	}
}
