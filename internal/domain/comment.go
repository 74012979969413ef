package domain

// Comment is a user review attached to one center. Created by submission,
// never mutated or deleted by this client.
type Comment struct {
	ID        string `json:"id"`
	CenterID  string `json:"center_id"`
	User      string `json:"user"`
	Content   string `json:"content"`
	Mark      int    `json:"mark"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CommentIndex maps a center id to that center's ordered comment list.
// Invariant: every comment under a key carries that key as CenterID.
// The index is the unit of persistence and the single source of truth
// for aggregates.
type CommentIndex map[string][]Comment
