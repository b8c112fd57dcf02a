package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/jsonx/internal/ir"
)

// Entry describes one stored value without decoding it.
type Entry struct {
	Key   string `json:"key"`
	Frame string `json:"frame"`
	Seq   int64  `json:"seq"`
	Size  int    `json:"size"`
}

// Get loads and decodes the value stored under key.
// Returns ErrNotFound if there is no such key.
func (s *Store) Get(ctx context.Context, key string) (any, error) {
	n, err := s.GetNode(ctx, key)
	if err != nil {
		return nil, err
	}
	v, err := s.codec.Deserialize(n)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return v, nil
}

// GetNode loads the tagged tree stored under key without deserializing it.
func (s *Store) GetNode(ctx context.Context, key string) (*ir.Node, error) {
	var (
		frame string
		data  []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT frame, tree FROM entries WHERE key = ?`, key).Scan(&frame, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	n, err := unmarshalTree(data, frame)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return n, nil
}

// Keys returns every key in write order.
// Returns an empty slice (not nil) for an empty store.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys, nil
}

// List returns every entry in write order: ORDER BY seq ASC, key ASC COLLATE BINARY.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, frame, seq, length(tree)
		FROM entries
		ORDER BY seq ASC, key COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Frame, &e.Seq, &e.Size); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}
