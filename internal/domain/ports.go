package domain

import "context"

// CatalogClient is the upstream catalog service. Reads are public; writes
// carry the session token as an opaque credential, forwarded unchanged.
type CatalogClient interface {
	ListCenters(ctx context.Context) ([]Center, error)
	ListComments(ctx context.Context, centerID string) ([]Comment, error)
	CreateComment(ctx context.Context, token, centerID, content string, mark int) (Comment, error)

	// Credential exchange is owned by the upstream; the client passes
	// credentials through and only keeps the returned token.
	ObtainToken(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password, email string) error
}

// StateStore is durable local storage as a key -> serialized-blob store.
// Get reports false (not an error) when the key is absent so a first run
// starts from empty state.
type StateStore interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Del(ctx context.Context, key string) error
}

// Keys the client owns inside the state store.
const (
	StateKeyComments = "comments"
	StateKeySession  = "session"
)
