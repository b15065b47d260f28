// Package storage keeps a local SQLite copy of the last fetched habit
// collection. It is only read back for offline listing and diagnostics.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitvault/internal/migration"
	"github.com/julianstephens/habitvault/internal/models"
	"github.com/julianstephens/habitvault/migrations"
)

// ErrNoSnapshot is returned when nothing has been fetched yet
var ErrNoSnapshot = errors.New("no cached habits")

// Snapshot is the last fetched collection and when it was fetched
type Snapshot struct {
	Habits    []models.Habit
	FetchedAt time.Time
	APIURL    string
}

// Age returns how long ago the snapshot was taken
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

type Store struct {
	path   string
	source string
	db     *sql.DB
	now    func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// SetSource records the API base URL stored alongside each snapshot
func (s *Store) SetSource(apiURL string) {
	s.source = apiURL
}

func (s *Store) Path() string {
	return s.path
}

// Init opens the database, creating it and its directory if needed, and
// applies pending migrations
func (s *Store) Init(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// foreign_keys is a per-connection pragma
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	runner, err := newRunner(db)
	if err != nil {
		db.Close()
		return err
	}
	if _, err := runner.Apply(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = db
	return nil
}

// Load opens an existing database without creating it. A missing file gives
// ErrNoSnapshot.
func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return ErrNoSnapshot
	}
	return s.Init(ctx)
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SchemaStatus reports the database's migration status
func (s *Store) SchemaStatus(ctx context.Context) (migration.Status, error) {
	if s.db == nil {
		return migration.Status{}, fmt.Errorf("storage not initialized")
	}
	runner, err := newRunner(s.db)
	if err != nil {
		return migration.Status{}, err
	}
	return runner.Status(ctx)
}

func newRunner(db *sql.DB) (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(db, sub), nil
}

// SaveSnapshot replaces the stored collection with habits
func (s *Store) SaveSnapshot(habits []models.Habit) error {
	if s.db == nil {
		return fmt.Errorf("storage not initialized")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM habit_logs", "DELETE FROM habits", "DELETE FROM snapshot_meta"} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
	}

	for pos, h := range habits {
		targetDays, err := json.Marshal(h.TargetDays)
		if err != nil {
			return fmt.Errorf("failed to encode target days of habit %s: %w", h.ID, err)
		}

		_, err = tx.Exec(`
			INSERT INTO habits (position, id, name, target_days, start_date, current_streak, longest_streak, today_status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			pos, h.ID, h.Name, string(targetDays), h.StartDate,
			nullInt(h.CurrentStreak), nullInt(h.LongestStreak), h.TodayStatus,
		)
		if err != nil {
			return fmt.Errorf("failed to save habit %s: %w", h.ID, err)
		}

		for seq, l := range h.Logs {
			_, err := tx.Exec("INSERT INTO habit_logs (habit_position, seq, date, status) VALUES (?, ?, ?, ?)",
				pos, seq, l.Date, l.Status)
			if err != nil {
				return fmt.Errorf("failed to save log of habit %s: %w", h.ID, err)
			}
		}
	}

	_, err = tx.Exec("INSERT INTO snapshot_meta (id, fetched_at, api_url, habit_count) VALUES (1, ?, ?, ?)",
		s.now().UTC().Format(time.RFC3339Nano), s.source, len(habits))
	if err != nil {
		return fmt.Errorf("failed to save snapshot metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored collection in its fetched order
func (s *Store) LoadSnapshot() (Snapshot, error) {
	if s.db == nil {
		return Snapshot{}, fmt.Errorf("storage not initialized")
	}

	var snap Snapshot
	var fetchedAt string
	var count int
	err := s.db.QueryRow("SELECT fetched_at, api_url, habit_count FROM snapshot_meta WHERE id = 1").
		Scan(&fetchedAt, &snap.APIURL, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot metadata: %w", err)
	}
	snap.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("invalid snapshot timestamp %q: %w", fetchedAt, err)
	}

	rows, err := s.db.Query(`
		SELECT position, id, name, target_days, start_date, current_streak, longest_streak, today_status
		FROM habits ORDER BY position`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read habits: %w", err)
	}
	defer rows.Close()

	snap.Habits = make([]models.Habit, 0, count)
	positions := make(map[int]int, count)
	for rows.Next() {
		var h models.Habit
		var pos int
		var targetDays string
		var current, longest sql.NullInt64
		if err := rows.Scan(&pos, &h.ID, &h.Name, &targetDays, &h.StartDate, &current, &longest, &h.TodayStatus); err != nil {
			return Snapshot{}, fmt.Errorf("failed to scan habit: %w", err)
		}
		if err := json.Unmarshal([]byte(targetDays), &h.TargetDays); err != nil {
			return Snapshot{}, fmt.Errorf("invalid target days for habit %s: %w", h.ID, err)
		}
		h.CurrentStreak = intPtr(current)
		h.LongestStreak = intPtr(longest)

		positions[pos] = len(snap.Habits)
		snap.Habits = append(snap.Habits, h)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to read habits: %w", err)
	}
	rows.Close()

	logRows, err := s.db.Query("SELECT habit_position, date, status FROM habit_logs ORDER BY habit_position, seq")
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read habit logs: %w", err)
	}
	defer logRows.Close()

	for logRows.Next() {
		var pos int
		var l models.HabitLog
		if err := logRows.Scan(&pos, &l.Date, &l.Status); err != nil {
			return Snapshot{}, fmt.Errorf("failed to scan habit log: %w", err)
		}
		if i, ok := positions[pos]; ok {
			snap.Habits[i].Logs = append(snap.Habits[i].Logs, l)
		}
	}
	if err := logRows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to read habit logs: %w", err)
	}

	return snap, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
