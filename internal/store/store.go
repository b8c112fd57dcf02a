package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/jsonx/internal/seria"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added idx_entries_seq for ordered listing
const currentSchemaVersion = 1

// ErrNotFound is returned when a key has no entry.
var ErrNotFound = errors.New("store: key not found")

// KeyGenerator produces keys for values stored without one.
type KeyGenerator interface {
	Generate() string
}

// uuidKeys generates random UUIDv4 keys.
type uuidKeys struct{}

func (uuidKeys) Generate() string { return uuid.NewString() }

// Store persists values as framed trees in SQLite.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db     *sql.DB
	codec  *seria.Codec
	frame  seria.Frame
	keys   KeyGenerator
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithFrame sets the frame new entries are written with. JSON is the default.
func WithFrame(f seria.Frame) Option {
	return func(s *Store) {
		if f != "" {
			s.frame = f
		}
	}
}

// WithKeyGenerator replaces the UUID generator used when Put gets no key.
func WithKeyGenerator(g KeyGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.keys = g
		}
	}
}

// WithLogger sets the logger for store diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// A nil codec gets a seria codec with empty registries.
// This function is idempotent - safe to call multiple times.
func Open(path string, codec *seria.Codec, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	if codec == nil {
		codec = seria.New(nil)
	}
	s := &Store{
		db:     db,
		codec:  codec,
		frame:  seria.FrameJSON,
		keys:   uuidKeys{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Codec returns the codec entries are encoded with.
func (s *Store) Codec() *seria.Codec {
	return s.codec
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the seq index to databases created before it was part
// of schema.sql.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_entries_seq ON entries(seq)`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
