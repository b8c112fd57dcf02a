package store

import (
	"context"
	"fmt"
)

// Put stores v under key and returns the key. An empty key is replaced by
// one from the store's KeyGenerator. Writing an existing key replaces its
// value and gives it the next seq.
func (s *Store) Put(ctx context.Context, key string, v any) (string, error) {
	data, err := s.marshalValue(v)
	if err != nil {
		return "", fmt.Errorf("put: %w", err)
	}
	if key == "" {
		key = s.keys.Generate()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("put: begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM entries`).Scan(&seq); err != nil {
		return "", fmt.Errorf("put: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (key, frame, tree, seq)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			frame = excluded.frame,
			tree = excluded.tree,
			seq = excluded.seq
	`, key, string(s.frame), data, seq)
	if err != nil {
		return "", fmt.Errorf("put %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("put: commit: %w", err)
	}

	s.logger.Debug("stored value", "key", key, "frame", string(s.frame), "seq", seq, "bytes", len(data))
	return key, nil
}

// Delete removes the entry for key. Returns ErrNotFound if there is none.
func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %q: %w", key, ErrNotFound)
	}
	return nil
}
