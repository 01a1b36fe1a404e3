package api

import (
	"time"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/sim"
)

// EngineError represents a structured error response with context
type EngineError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

const (
	// Input validation errors
	ErrTypeInvalidParams = "invalid_params"
	ErrTypeValidation    = "validation_error"

	// Session errors
	ErrTypeSessionNotFound = "session_not_found"
	ErrTypeActionRejected  = "action_rejected"
	ErrTypeSessionLimit    = "session_limit"

	// Access errors
	ErrTypeUnauthorized = "unauthorized"

	// System errors
	ErrTypeTimeout            = "timeout"
	ErrTypeInternal           = "internal_error"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryGame       ErrorCategory = "game"
	CategoryAccess     ErrorCategory = "access"
	CategorySystem     ErrorCategory = "system"
	CategoryTimeout    ErrorCategory = "timeout"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeInvalidParams, ErrTypeValidation:
		return CategoryValidation
	case ErrTypeSessionNotFound, ErrTypeActionRejected, ErrTypeSessionLimit:
		return CategoryGame
	case ErrTypeUnauthorized:
		return CategoryAccess
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// VersionInfo contains engine version information
type VersionInfo struct {
	EngineVersion string `json:"engine_version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildTime     string `json:"build_time,omitempty"`
	GoVersion     string `json:"go_version"`
	Dirty         bool   `json:"dirty,omitempty"`
}

// CreateSessionRequest opens a session. Animation defaults to the server
// setting; Seed pins the randomizer for reproducible play.
type CreateSessionRequest struct {
	Name      string `json:"name,omitempty"`
	Animation string `json:"animation,omitempty"`
	Seed      *int64 `json:"seed,omitempty"`
}

// SessionResponse is a live session and its current state.
type SessionResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name,omitempty"`
	Animation string        `json:"animation"`
	CreatedAt time.Time     `json:"created_at"`
	State     game.Snapshot `json:"state"`
}

// ActionResponse reports whether an action was accepted and the state
// after it.
type ActionResponse struct {
	Accepted bool          `json:"accepted"`
	State    game.Snapshot `json:"state"`
}

// ForceSliceRequest pins the next spin to a slice index.
type ForceSliceRequest struct {
	Index *int `json:"index"`
}

// BombChanceRequest overrides the bomb chance until cleared.
type BombChanceRequest struct {
	Chance *float64 `json:"chance"`
}

// SeedRequest switches the randomizer to a deterministic seed.
type SeedRequest struct {
	Seed *int64 `json:"seed"`
}

// ZoneRequest jumps to a zone number.
type ZoneRequest struct {
	Zone int `json:"zone"`
}

// SimulateRequest runs a Monte-Carlo simulation against the server profile.
type SimulateRequest struct {
	sim.Params
	TimeoutMs int `json:"timeout_ms,omitempty"`
}

// SimulateResponse wraps a simulation report.
type SimulateResponse struct {
	Report        *sim.Report     `json:"report"`
	EngineVersion string          `json:"engine_version"`
	Echo          SimulateRequest `json:"echo"`
}
