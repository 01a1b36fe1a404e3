package store

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a session id has no row.
var ErrSessionNotFound = errors.New("store: session not found")

// DB represents the database interface
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	Migrate() error
	CreateSession(sess *Session) (string, error)
	EndSession(id, finalState string) error
	SaveEvents(sessionID string, events []SpinEvent) error
	GetSession(id string) (*Session, error)
	ListSessions(query SessionsQuery) (*SessionsList, error)
	GetEvents(sessionID string, afterSeq, limit int) ([]SpinEvent, error)
	DeleteSession(id string) error
}

// SessionsQuery represents query parameters for listing sessions
type SessionsQuery struct {
	State   string `json:"state,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

// SessionsList represents a paginated sessions response
type SessionsList struct {
	Sessions   []Session `json:"sessions"`
	TotalCount int       `json:"totalCount"`
	Page       int       `json:"page"`
	PerPage    int       `json:"perPage"`
	TotalPages int       `json:"totalPages"`
}

// Session is one persisted play session with running totals.
type Session struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Seed        *int64     `json:"seed,omitempty" db:"seed"`
	Animation   string     `json:"animation" db:"animation"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	EndedAt     *time.Time `json:"endedAt,omitempty" db:"ended_at"`
	FinalState  string     `json:"finalState" db:"final_state"`
	TotalSpins  int        `json:"totalSpins" db:"total_spins"`
	Bombs       int        `json:"bombs" db:"bombs"`
	Revives     int        `json:"revives" db:"revives"`
	HighestZone int        `json:"highestZone" db:"highest_zone"`
	Lifetime    int        `json:"lifetime" db:"lifetime"`
}

// SpinEvent is one recorded game event. Seq orders events within a session.
type SpinEvent struct {
	ID         int64     `json:"id" db:"id"`
	SessionID  string    `json:"sessionId" db:"session_id"`
	Seq        int       `json:"seq" db:"seq"`
	Kind       string    `json:"kind" db:"kind"`
	Zone       int       `json:"zone" db:"zone"`
	Category   string    `json:"category" db:"category"`
	SliceIndex int       `json:"sliceIndex" db:"slice_index"`
	SliceID    string    `json:"sliceId" db:"slice_id"`
	SliceKind  string    `json:"sliceKind" db:"slice_kind"`
	Value      int       `json:"value" db:"value"`
	Forced     bool      `json:"forced" db:"forced"`
	BombChance float64   `json:"bombChance" db:"bomb_chance"`
	Cost       int       `json:"cost" db:"cost"`
	Pending    int       `json:"pending" db:"pending"`
	Lifetime   int       `json:"lifetime" db:"lifetime"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

const (
	StateRunning = "running"
	StateEnded   = "ended"
)
