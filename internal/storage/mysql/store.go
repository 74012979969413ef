// Package mysql backs the state store with a single key/blob table, for
// deployments that already run MySQL and want the client state there.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"center_catalog/internal/adapters/observability"
)

type Store struct{ db *sql.DB }

func New(db *sql.DB) *Store { return &Store{db: db} }

// Migrate creates the state table when missing. Safe to call on every start.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createStateTableSQL)
	return err
}

func (s *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, getStateSQL, key).Scan(&v)
	if err == sql.ErrNoRows {
		observability.ObserveStore("mysql", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveStore("mysql", "hit")
	return true, json.Unmarshal(v, dst)
}

func (s *Store) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveStore("mysql", "set")
	_, err = s.db.ExecContext(ctx, upsertStateSQL, key, string(b))
	return err
}

func (s *Store) Del(ctx context.Context, key string) error {
	observability.ObserveStore("mysql", "del")
	_, err := s.db.ExecContext(ctx, deleteStateSQL, key)
	return err
}
