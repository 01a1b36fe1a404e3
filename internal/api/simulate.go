package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/sim"
)

const (
	defaultSimTimeout = 30 * time.Second
	maxSimTimeout     = 55 * time.Second
)

// handleSimulate plays a Monte-Carlo batch against the server profile.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if !s.decodeJSON(w, r, &req, false) {
		return
	}
	if req.Runs <= 0 || req.Runs > sim.MaxRuns {
		s.errorHandler.HandleValidationError(w, r, "runs", "runs must be within [1, 1000000]")
		return
	}
	if req.BombChance != nil && (*req.BombChance < 0 || *req.BombChance > 1) {
		s.errorHandler.HandleValidationError(w, r, "bomb_chance", "bomb_chance must be within [0, 1]")
		return
	}

	timeout := defaultSimTimeout
	if req.TimeoutMs > 0 {
		timeout = min(time.Duration(req.TimeoutMs)*time.Millisecond, maxSimTimeout)
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	report, err := sim.Run(ctx, s.cfg.Profile(), s.cfg.Randomizer(), req.Params, s.log.Named("sim"))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.errorHandler.Respond(w, r, http.StatusRequestTimeout,
				NewError(ErrTypeTimeout, "Simulation timed out").
					WithContext("timeout_ms", timeout.Milliseconds()).
					WithContext("runs", req.Runs))
			return
		}
		s.errorHandler.Respond(w, r, http.StatusBadRequest,
			NewError(ErrTypeInvalidParams, "Simulation failed").
				WithCause(err))
		return
	}

	s.writeJSON(w, http.StatusOK, SimulateResponse{
		Report:        report,
		EngineVersion: EngineVersion,
		Echo:          req,
	})
}
