package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"center_catalog/internal/domain"
)

// SyncService reconciles the upstream comment service with the local
// comment store: fetches replace a center's list wholesale, acknowledged
// submissions append.
type SyncService struct {
	client domain.CatalogClient
	store  *CommentStore
}

func NewSyncService(c domain.CatalogClient, store *CommentStore) *SyncService {
	return &SyncService{client: c, store: store}
}

// FetchComments refreshes one center's list from the upstream. On any
// failure the cached list stays untouched: stale beats empty. A canceled
// context discards the result instead of applying it, so a refresh that
// outlives its catalog cannot write against a dropped center.
func (s *SyncService) FetchComments(ctx context.Context, centerID string) error {
	comments, err := s.client.ListComments(ctx, centerID)
	if err != nil {
		log.Warn().Str("center", centerID).Err(err).Msg("comment fetch failed, keeping cached list")
		return fmt.Errorf("%w: center %s: %v", domain.ErrFetchFailed, centerID, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	// Server truth replaces the prior list even when empty.
	s.store.ReplaceForCenter(ctx, centerID, comments)
	return nil
}

// SubmitComment posts one comment on behalf of the session. Both
// preconditions are checked before any network I/O; on upstream failure the
// store is untouched and the caller keeps the typed content and mark for a
// retry. The append happens only after the upstream acknowledges the write,
// using the comment the server returned.
func (s *SyncService) SubmitComment(ctx context.Context, sess domain.Session, centerID, content string, mark int) (domain.Comment, error) {
	if !sess.Authenticated() {
		return domain.Comment{}, domain.ErrUnauthenticated
	}
	if mark < 1 || mark > 5 {
		return domain.Comment{}, fmt.Errorf("%w: mark %d is outside 1..5", domain.ErrInvalidRating, mark)
	}

	created, err := s.client.CreateComment(ctx, sess.Token, centerID, content, mark)
	if err != nil {
		log.Warn().Str("center", centerID).Err(err).Msg("comment submission failed")
		return domain.Comment{}, fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
	}
	if created.User == "" {
		created.User = sess.Username
	}
	s.store.AppendForCenter(ctx, centerID, created)
	return created, nil
}

// RefreshAll fetches every center's comments with at most workers in
// flight. Per-center failures are logged and skipped; each center's list is
// applied independently, with no cross-center ordering.
func (s *SyncService) RefreshAll(ctx context.Context, centers []domain.Center, workers int) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for _, c := range centers {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("refresh aborted")
			break
		}
		wg.Add(1)
		go func(centerID string) {
			defer wg.Done()
			defer sem.Release(1)
			_ = s.FetchComments(ctx, centerID)
		}(c.ID)
	}
	wg.Wait()
}
