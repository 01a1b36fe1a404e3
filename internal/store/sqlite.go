package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Ping checks that the database answers.
func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate runs database migrations
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			seed INTEGER,
			animation TEXT NOT NULL DEFAULT 'instant',
			created_at DATETIME NOT NULL,
			ended_at DATETIME,
			final_state TEXT NOT NULL DEFAULT 'running',
			total_spins INTEGER NOT NULL DEFAULT 0,
			bombs INTEGER NOT NULL DEFAULT 0,
			revives INTEGER NOT NULL DEFAULT 0,
			highest_zone INTEGER NOT NULL DEFAULT 1,
			lifetime INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS spin_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			zone INTEGER NOT NULL,
			category TEXT NOT NULL,
			slice_index INTEGER NOT NULL DEFAULT -1,
			slice_id TEXT NOT NULL DEFAULT '',
			slice_kind TEXT NOT NULL DEFAULT '',
			value INTEGER NOT NULL DEFAULT 0,
			forced INTEGER NOT NULL DEFAULT 0,
			bomb_chance REAL NOT NULL DEFAULT 0,
			cost INTEGER NOT NULL DEFAULT 0,
			pending INTEGER NOT NULL DEFAULT 0,
			lifetime INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_spin_events_session_seq ON spin_events(session_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_state ON sessions(final_state, created_at DESC)`,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	for _, migration := range migrations {
		if _, err := tx.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return tx.Commit()
}

// CreateSession inserts a session and returns its ID
func (s *SQLiteDB) CreateSession(sess *Session) (string, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	if sess.FinalState == "" {
		sess.FinalState = StateRunning
	}
	if sess.Animation == "" {
		sess.Animation = "instant"
	}
	if sess.HighestZone < 1 {
		sess.HighestZone = 1
	}

	_, err := s.db.Exec(
		`INSERT INTO sessions (id, name, seed, animation, created_at, final_state, highest_zone)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Name, sess.Seed, sess.Animation, sess.CreatedAt, sess.FinalState, sess.HighestZone,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return sess.ID, nil
}

// EndSession marks a session finished
func (s *SQLiteDB) EndSession(id, finalState string) error {
	if finalState == "" {
		finalState = StateEnded
	}
	res, err := s.db.Exec(
		`UPDATE sessions SET ended_at = ?, final_state = ? WHERE id = ?`,
		time.Now().UTC(), finalState, id,
	)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// SaveEvents stores a batch of events and folds them into the session totals
// in a single transaction.
func (s *SQLiteDB) SaveEvents(sessionID string, events []SpinEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO spin_events (session_id, seq, kind, zone, category, slice_index, slice_id, slice_kind,
		                          value, forced, bomb_chance, cost, pending, lifetime, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	var spins, bombs, revives, highest, lifetime int
	for _, ev := range events {
		if ev.CreatedAt.IsZero() {
			ev.CreatedAt = time.Now().UTC()
		}
		_, err := stmt.Exec(
			sessionID, ev.Seq, ev.Kind, ev.Zone, ev.Category, ev.SliceIndex, ev.SliceID, ev.SliceKind,
			ev.Value, ev.Forced, ev.BombChance, ev.Cost, ev.Pending, ev.Lifetime, ev.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event #%d: %w", ev.Seq, err)
		}

		switch ev.Kind {
		case "reward":
			spins++
		case "bomb":
			spins++
			bombs++
		case "revive":
			revives++
		}
		// Reward events carry the zone spun, one below the zone reached.
		reached := ev.Zone
		if ev.Kind == "reward" {
			reached++
		}
		highest = max(highest, reached)
		lifetime = max(lifetime, ev.Lifetime)
	}

	res, err := tx.Exec(
		`UPDATE sessions SET
			total_spins = total_spins + ?,
			bombs = bombs + ?,
			revives = revives + ?,
			highest_zone = MAX(highest_zone, ?),
			lifetime = MAX(lifetime, ?)
		 WHERE id = ?`,
		spins, bombs, revives, highest, lifetime, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session totals: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}

	return tx.Commit()
}

const sessionColumns = `id, name, seed, animation, created_at, ended_at, final_state,
	total_spins, bombs, revives, highest_zone, lifetime`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var (
		sess Session
		seed sql.NullInt64
		end  sql.NullTime
	)
	err := row.Scan(
		&sess.ID, &sess.Name, &seed, &sess.Animation, &sess.CreatedAt, &end, &sess.FinalState,
		&sess.TotalSpins, &sess.Bombs, &sess.Revives, &sess.HighestZone, &sess.Lifetime,
	)
	if err != nil {
		return nil, err
	}
	if seed.Valid {
		v := seed.Int64
		sess.Seed = &v
	}
	if end.Valid {
		t := end.Time
		sess.EndedAt = &t
	}
	return &sess, nil
}

// GetSession retrieves a session by ID
func (s *SQLiteDB) GetSession(id string) (*Session, error) {
	sess, err := scanSession(s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// ListSessions retrieves sessions with pagination, newest first
func (s *SQLiteDB) ListSessions(query SessionsQuery) (*SessionsList, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage <= 0 {
		query.PerPage = 20
	}
	if query.PerPage > 100 {
		query.PerPage = 100
	}

	var (
		where []string
		args  []any
	)
	if query.State != "" {
		where = append(where, "final_state = ?")
		args = append(args, query.State)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`+clause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	offset := (query.Page - 1) * query.PerPage
	rows, err := s.db.Query(
		`SELECT `+sessionColumns+` FROM sessions`+clause+` ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		append(args, query.PerPage, offset)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	totalPages := total / query.PerPage
	if total%query.PerPage > 0 {
		totalPages++
	}

	return &SessionsList{
		Sessions:   sessions,
		TotalCount: total,
		Page:       query.Page,
		PerPage:    query.PerPage,
		TotalPages: totalPages,
	}, nil
}

// GetEvents returns up to limit events of a session with seq > afterSeq,
// ordered by seq.
func (s *SQLiteDB) GetEvents(sessionID string, afterSeq, limit int) ([]SpinEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	rows, err := s.db.Query(
		`SELECT id, session_id, seq, kind, zone, category, slice_index, slice_id, slice_kind,
		        value, forced, bomb_chance, cost, pending, lifetime, created_at
		 FROM spin_events WHERE session_id = ? AND seq > ? ORDER BY seq LIMIT ?`,
		sessionID, afterSeq, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	events := []SpinEvent{}
	for rows.Next() {
		var ev SpinEvent
		err := rows.Scan(
			&ev.ID, &ev.SessionID, &ev.Seq, &ev.Kind, &ev.Zone, &ev.Category, &ev.SliceIndex, &ev.SliceID,
			&ev.SliceKind, &ev.Value, &ev.Forced, &ev.BombChance, &ev.Cost, &ev.Pending, &ev.Lifetime, &ev.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DeleteSession removes a session and its events
func (s *SQLiteDB) DeleteSession(id string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
