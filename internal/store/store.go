// Package store handles SQLite persistence of the workout snapshot.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/mapty/internal/workout"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SnapshotKey is the key holding the workout collection.
const SnapshotKey = "workouts"

// Store keeps a single JSON snapshot of the workout collection in a
// key/value table.
type Store struct {
	db      *sql.DB
	factory *workout.Factory
	logger  *slog.Logger

	discarded bool
}

// Open opens or creates the SQLite database and applies migrations. Loaded
// records are rebuilt through factory.
func Open(path string, factory *workout.Factory, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	store := &Store{db: db, factory: factory, logger: logger}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save overwrites the snapshot with activities, in order.
func (s *Store) Save(ctx context.Context, activities []workout.Activity) error {
	payload, err := json.Marshal(workout.Records(activities))
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.put(ctx, SnapshotKey, payload); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the saved activities, or an empty slice when there is no
// snapshot. A snapshot that cannot be decoded or contains an invalid record
// is logged and treated as absent; Discarded reports it until the next Load.
func (s *Store) Load(ctx context.Context) ([]workout.Activity, error) {
	s.discarded = false
	raw, ok, err := s.get(ctx, SnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if !ok {
		return []workout.Activity{}, nil
	}
	var records []workout.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return s.discard("discarding unreadable snapshot", slog.String("key", SnapshotKey), slog.Any("error", err)), nil
	}
	activities := make([]workout.Activity, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		a, err := s.factory.Restore(rec)
		if err != nil {
			return s.discard("discarding snapshot with invalid record", slog.Int("index", i), slog.Any("error", err)), nil
		}
		if _, dup := seen[a.ID()]; dup {
			return s.discard("discarding snapshot with duplicate id", slog.String("id", a.ID())), nil
		}
		seen[a.ID()] = struct{}{}
		activities = append(activities, a)
	}
	return activities, nil
}

func (s *Store) discard(msg string, args ...any) []workout.Activity {
	s.discarded = true
	s.logger.Warn(msg, args...)
	return []workout.Activity{}
}

// Discarded reports whether the last Load dropped an unreadable snapshot.
func (s *Store) Discarded() bool {
	return s.discarded
}

// Reset deletes the snapshot.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, SnapshotKey); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// UpdatedAt returns when the snapshot was last written.
func (s *Store) UpdatedAt(ctx context.Context) (time.Time, bool, error) {
	var ts string
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, SnapshotKey).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, false, err
	}
	return parsed, true, nil
}

func (s *Store) put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *Store) get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}
