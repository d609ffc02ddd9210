// Package store persists fetched player profiles and plan history.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/napolitain/ironquest/internal/profile"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = errors.New("not found")

// Store wraps the database connection
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// PlanRecord summarises a planned path
type PlanRecord struct {
	ID              uuid.UUID `json:"id"`
	Player          string    `json:"player"`
	Algorithm       string    `json:"algorithm"`
	PercentComplete int       `json:"percentComplete"`
	Actions         []string  `json:"actions"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Open connects to the database for driver and runs migrations
func Open(driver, dsn string) (*Store, error) {
	dialect, err := NewDialect(DialectType(driver))
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if n := dialect.MaxOpenConns(); n > 0 {
		db.SetMaxOpenConns(n)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	s := &Store{db: db, dialect: dialect}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			name TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			fetched_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			percent_complete INTEGER NOT NULL,
			actions TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plans_player ON plans(player, created_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) query(q string) string {
	return rebind(s.dialect, q)
}

func profileKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SaveProfile inserts or replaces a cached profile
func (s *Store) SaveProfile(ctx context.Context, prof *profile.Profile) error {
	payload, err := json.Marshal(prof)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.query(
		`INSERT INTO profiles (name, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`),
		profileKey(prof.Name), string(payload), prof.FetchedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", prof.Name, err)
	}
	return nil
}

// LoadProfile returns a cached profile or ErrNotFound
func (s *Store) LoadProfile(ctx context.Context, name string) (*profile.Profile, error) {
	var payload string
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx, s.query(
		`SELECT payload, fetched_at FROM profiles WHERE name = ?`), profileKey(name)).
		Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", name, err)
	}

	var prof profile.Profile
	if err := json.Unmarshal([]byte(payload), &prof); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", name, err)
	}
	prof.FetchedAt = time.UnixMilli(fetchedAt)
	return &prof, nil
}

// SavePlan stores a plan summary and returns it with its id
func (s *Store) SavePlan(ctx context.Context, rec PlanRecord) (PlanRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	actions, err := json.Marshal(rec.Actions)
	if err != nil {
		return rec, fmt.Errorf("failed to encode plan actions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.query(
		`INSERT INTO plans (id, player, algorithm, percent_complete, actions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`),
		rec.ID.String(), profileKey(rec.Player), rec.Algorithm, rec.PercentComplete,
		string(actions), rec.CreatedAt.UnixMilli())
	if err != nil {
		return rec, fmt.Errorf("failed to save plan: %w", err)
	}
	return rec, nil
}

// GetPlan returns a stored plan by id
func (s *Store) GetPlan(ctx context.Context, id uuid.UUID) (PlanRecord, error) {
	row := s.db.QueryRowContext(ctx, s.query(
		`SELECT id, player, algorithm, percent_complete, actions, created_at FROM plans WHERE id = ?`),
		id.String())
	rec, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return rec, err
}

// ListPlans returns the newest plans for a player
func (s *Store) ListPlans(ctx context.Context, player string, limit int) ([]PlanRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.query(
		`SELECT id, player, algorithm, percent_complete, actions, created_at FROM plans
		 WHERE player = ? ORDER BY created_at DESC LIMIT ?`),
		profileKey(player), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []PlanRecord
	for rows.Next() {
		rec, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, rec)
	}
	return plans, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner) (PlanRecord, error) {
	var rec PlanRecord
	var id, actions string
	var createdAt int64
	if err := row.Scan(&id, &rec.Player, &rec.Algorithm, &rec.PercentComplete, &actions, &createdAt); err != nil {
		return rec, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return rec, fmt.Errorf("invalid plan id %q: %w", id, err)
	}
	rec.ID = parsed
	if err := json.Unmarshal([]byte(actions), &rec.Actions); err != nil {
		return rec, fmt.Errorf("failed to decode plan actions: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt)
	return rec, nil
}
