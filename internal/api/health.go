package api

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResponse represents a comprehensive health check response
type HealthCheckResponse struct {
	Status        HealthStatus           `json:"status"`
	Timestamp     string                 `json:"timestamp"`
	EngineVersion string                 `json:"engine_version"`
	GitCommit     string                 `json:"git_commit,omitempty"`
	BuildTime     string                 `json:"build_time,omitempty"`
	Uptime        string                 `json:"uptime"`
	Checks        map[string]HealthCheck `json:"checks"`
	System        SystemInfo             `json:"system"`
	RequestID     string                 `json:"request_id,omitempty"`
}

// HealthCheck represents an individual health check
type HealthCheck struct {
	Status      HealthStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	LastChecked string       `json:"last_checked"`
	Duration    string       `json:"duration,omitempty"`
}

// SystemInfo contains system information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	GOMAXPROCS    int    `json:"gomaxprocs"`
	MemoryAlloc   uint64 `json:"memory_alloc_bytes"`
	MemorySys     uint64 `json:"memory_sys_bytes"`
	GCCycles      uint32 `json:"gc_cycles"`
}

func systemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		MemoryAlloc:   m.Alloc,
		MemorySys:     m.Sys,
		GCCycles:      m.NumGC,
	}
}

func (s *Server) runChecks(ctx context.Context) (HealthStatus, map[string]HealthCheck) {
	checks := make(map[string]HealthCheck, 2)
	overall := HealthStatusHealthy

	start := time.Now()
	db := HealthCheck{Status: HealthStatusHealthy, Message: "persistence disabled"}
	if s.db != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := s.db.Ping(ctx)
		cancel()
		if err != nil {
			db.Status = HealthStatusUnhealthy
			db.Message = err.Error()
			overall = HealthStatusUnhealthy
		} else {
			db.Message = "ok"
		}
	}
	db.LastChecked = time.Now().UTC().Format(time.RFC3339)
	db.Duration = time.Since(start).String()
	checks["database"] = db

	live := s.sessions.Len()
	sessions := HealthCheck{
		Status:      HealthStatusHealthy,
		Message:     fmt.Sprintf("%d live", live),
		LastChecked: time.Now().UTC().Format(time.RFC3339),
	}
	if limit := s.cfg.Server.MaxSessions; limit > 0 && live >= limit {
		sessions.Status = HealthStatusDegraded
		sessions.Message = fmt.Sprintf("%d live, limit reached", live)
		if overall == HealthStatusHealthy {
			overall = HealthStatusDegraded
		}
	}
	checks["sessions"] = sessions

	return overall, checks
}

// handleHealthCheck reports every check; unhealthy answers 503.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status, checks := s.runChecks(r.Context())
	resp := HealthCheckResponse{
		Status:        status,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		EngineVersion: EngineVersion,
		GitCommit:     GitCommit,
		BuildTime:     BuildTime,
		Uptime:        time.Since(s.startTime).Round(time.Second).String(),
		Checks:        checks,
		System:        systemInfo(),
		RequestID:     middleware.GetReqID(r.Context()),
	}

	code := http.StatusOK
	if status == HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, resp)
}

// handleReadiness answers 200 once the store is reachable.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	status, checks := s.runChecks(r.Context())
	if status == HealthStatusUnhealthy {
		s.errorHandler.Respond(w, r, http.StatusServiceUnavailable,
			NewError(ErrTypeServiceUnavailable, "Service not ready").
				WithContext("database", checks["database"].Message))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, GetVersionInfo())
}
