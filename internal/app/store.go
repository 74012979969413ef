package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"center_catalog/internal/domain"
)

// ChangeFn receives the id of the center whose list changed, or "" when
// every center is affected (load, clear).
type ChangeFn func(centerID string)

// CommentStore holds the per-center comment index. Every mutation writes
// the full serialized index back to durable storage before returning, so a
// crash right after a call never loses the update; listeners are notified
// after the write.
type CommentStore struct {
	store domain.StateStore

	mu    sync.Mutex
	index domain.CommentIndex
	subs  []ChangeFn
}

func NewCommentStore(st domain.StateStore) *CommentStore {
	return &CommentStore{store: st, index: domain.CommentIndex{}}
}

// OnChange registers a listener. Not safe to call concurrently with
// mutations; register listeners during wiring.
func (s *CommentStore) OnChange(fn ChangeFn) {
	s.subs = append(s.subs, fn)
}

// Load restores the index from durable storage. Absent or unreadable state
// reads as empty; this never fails the caller.
func (s *CommentStore) Load(ctx context.Context) {
	var idx domain.CommentIndex
	ok, err := s.store.Get(ctx, domain.StateKeyComments, &idx)
	if err != nil {
		log.Warn().Err(err).Msg("comment state unreadable, starting empty")
	}
	if !ok || idx == nil {
		idx = domain.CommentIndex{}
	}

	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()
	s.notify("")
}

// ReplaceForCenter overwrites the ordered list for one center with the
// server's truth. The whole list is swapped under one lock, so a racing
// append for the same center can lose but never interleave.
func (s *CommentStore) ReplaceForCenter(ctx context.Context, centerID string, comments []domain.Comment) {
	cs := make([]domain.Comment, len(comments))
	copy(cs, comments)
	for i := range cs {
		cs[i].CenterID = centerID
	}

	s.mu.Lock()
	s.index[centerID] = cs
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify(centerID)
}

// AppendForCenter adds one acknowledged comment to the end of its center's
// list.
func (s *CommentStore) AppendForCenter(ctx context.Context, centerID string, c domain.Comment) {
	c.CenterID = centerID

	s.mu.Lock()
	s.index[centerID] = append(s.index[centerID], c)
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify(centerID)
}

// Clear empties the whole index; used on logout as a privacy reset.
func (s *CommentStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.index = domain.CommentIndex{}
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify("")
}

// CommentsFor returns a copy of one center's ordered list, empty when the
// center is unknown.
func (s *CommentStore) CommentsFor(centerID string) []domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.index[centerID]
	out := make([]domain.Comment, len(cs))
	copy(out, cs)
	return out
}

// Index returns a deep copy of the whole index.
func (s *CommentStore) Index() domain.CommentIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(domain.CommentIndex, len(s.index))
	for id, cs := range s.index {
		cp := make([]domain.Comment, len(cs))
		copy(cp, cs)
		out[id] = cp
	}
	return out
}

// persistLocked writes the full index synchronously. A storage failure is
// logged, not propagated: the in-memory index stays authoritative for this
// session and the next mutation retries the write.
func (s *CommentStore) persistLocked(ctx context.Context) {
	if err := s.store.Set(ctx, domain.StateKeyComments, s.index); err != nil {
		log.Warn().Err(err).Msg("persist comment index failed")
	}
}

func (s *CommentStore) notify(centerID string) {
	for _, fn := range s.subs {
		fn(centerID)
	}
}
