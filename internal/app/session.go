package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"center_catalog/internal/domain"
)

// GuestUsername is the synthetic name shown for token-less guest browsing.
const GuestUsername = "guest"

// SessionContext owns the visitor's auth state. Login and Logout are the
// only mutation paths; everything that needs the token reads a snapshot
// through Current instead of touching ambient globals.
type SessionContext struct {
	store    domain.StateStore
	comments *CommentStore

	mu  sync.Mutex
	cur domain.Session
}

func NewSessionContext(st domain.StateStore, comments *CommentStore) *SessionContext {
	return &SessionContext{store: st, comments: comments}
}

// Load resumes a persisted session so a restart keeps the visitor signed
// in. Absent or unreadable state resumes as guest.
func (s *SessionContext) Load(ctx context.Context) {
	var sess domain.Session
	ok, err := s.store.Get(ctx, domain.StateKeySession, &sess)
	if err != nil {
		log.Warn().Err(err).Msg("session state unreadable, starting as guest")
	}
	if !ok {
		return
	}
	s.mu.Lock()
	s.cur = sess
	s.mu.Unlock()
}

// Login enters the authenticated state and persists it. The token is opaque:
// it is stored and forwarded, never inspected.
func (s *SessionContext) Login(ctx context.Context, token, username string) {
	s.mu.Lock()
	s.cur = domain.Session{Token: token, Username: username}
	cur := s.cur
	s.mu.Unlock()

	if err := s.store.Set(ctx, domain.StateKeySession, cur); err != nil {
		log.Warn().Err(err).Msg("persist session failed")
	}
	log.Info().Str("user", username).Bool("authenticated", cur.Authenticated()).Msg("session started")
}

// LoginGuest enters guest browsing: a username for display, no token.
// Submissions still fail as unauthenticated.
func (s *SessionContext) LoginGuest(ctx context.Context) {
	s.Login(ctx, "", GuestUsername)
}

// Logout returns to guest, drops the persisted credentials, and clears the
// locally cached comments for this browsing session. Valid as a no-op when
// already a guest.
func (s *SessionContext) Logout(ctx context.Context) {
	s.mu.Lock()
	user := s.cur.Username
	s.cur = domain.Session{}
	s.mu.Unlock()

	if err := s.store.Del(ctx, domain.StateKeySession); err != nil {
		log.Warn().Err(err).Msg("clear persisted session failed")
	}
	s.comments.Clear(ctx)
	log.Info().Str("user", user).Msg("session ended")
}

// Current returns a snapshot of the session.
func (s *SessionContext) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}
