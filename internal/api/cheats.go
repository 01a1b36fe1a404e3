package api

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

func (s *Server) cheatRoutes(r chi.Router) {
	r.Use(s.requireCheatToken)

	r.Get("/slices", s.handleWorkingSlices)
	r.Post("/force-slice", s.handleForceSlice)
	r.Delete("/force-slice", s.cheat("clear_forced_slice", func(g *game.Game) bool {
		g.ClearForcedSlice()
		return true
	}))
	r.Post("/force-bomb", s.cheat("force_bomb", (*game.Game).TryForceBombSlice))
	r.Post("/force-safe", s.cheat("force_safe", (*game.Game).TryForceRandomNonBombSlice))
	r.Put("/bomb-chance", s.handleSetBombChance)
	r.Delete("/bomb-chance", s.cheat("clear_bomb_chance", func(g *game.Game) bool {
		g.ClearBombChance()
		return true
	}))
	r.Put("/seed", s.handleSetSeed)
	r.Delete("/seed", s.cheat("random_seed", func(g *game.Game) bool {
		g.UseRandomSeed()
		return true
	}))
	r.Put("/zone", s.handleSetZone)
	r.Put("/zone/{category}", s.handleSetZoneCategory)
}

// requireCheatToken checks X-Cheat-Token against the stored hash.
func (s *Server) requireCheatToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cheats.Configured() {
			s.errorHandler.Respond(w, r, http.StatusServiceUnavailable,
				NewError(ErrTypeServiceUnavailable, "No cheat token configured"))
			return
		}
		if !s.cheats.Verify(r.Header.Get(cheatHeader)) {
			s.errorHandler.Respond(w, r, http.StatusUnauthorized,
				NewError(ErrTypeUnauthorized, "missing or invalid "+cheatHeader))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cheat wraps a diagnostic control like a player action and logs it.
func (s *Server) cheat(name string, fn func(*game.Game) bool) http.HandlerFunc {
	act := s.act(name, fn)
	return func(w http.ResponseWriter, r *http.Request) {
		s.log.Info("cheat used",
			zap.String("session_id", chi.URLParam(r, "id")),
			zap.String("cheat", name),
			zap.String("request_id", middleware.GetReqID(r.Context())))
		act(w, r)
	}
}

func (s *Server) handleWorkingSlices(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	resp := map[string]any{"slices": sess.Game.WorkingSlices()}
	if chance, ok := sess.Game.Randomizer().BombChanceOverride(); ok {
		resp["bomb_chance_override"] = chance
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleForceSlice(w http.ResponseWriter, r *http.Request) {
	var req ForceSliceRequest
	if !s.decodeJSON(w, r, &req, false) {
		return
	}
	if req.Index == nil {
		s.errorHandler.HandleValidationError(w, r, "index", "index is required")
		return
	}
	index := *req.Index
	s.cheat("force_slice", func(g *game.Game) bool {
		g.ForceNextSlice(index)
		return true
	})(w, r)
}

func (s *Server) handleSetBombChance(w http.ResponseWriter, r *http.Request) {
	var req BombChanceRequest
	if !s.decodeJSON(w, r, &req, false) {
		return
	}
	if req.Chance == nil || math.IsNaN(*req.Chance) || *req.Chance < 0 || *req.Chance > 1 {
		s.errorHandler.HandleValidationError(w, r, "chance", "chance must be within [0, 1]")
		return
	}
	chance := *req.Chance
	s.cheat("bomb_chance", func(g *game.Game) bool {
		g.SetBombChance(chance)
		return true
	})(w, r)
}

func (s *Server) handleSetSeed(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if !s.decodeJSON(w, r, &req, false) {
		return
	}
	if req.Seed == nil {
		s.errorHandler.HandleValidationError(w, r, "seed", "seed is required")
		return
	}
	seed := *req.Seed
	s.cheat("seed", func(g *game.Game) bool {
		g.SetSeed(seed)
		return true
	})(w, r)
}

func (s *Server) handleSetZone(w http.ResponseWriter, r *http.Request) {
	var req ZoneRequest
	if !s.decodeJSON(w, r, &req, false) {
		return
	}
	if req.Zone < 1 {
		s.errorHandler.HandleValidationError(w, r, "zone", "zone must be at least 1")
		return
	}
	s.cheat("zone", func(g *game.Game) bool {
		return g.SetZoneIndex(req.Zone)
	})(w, r)
}

func (s *Server) handleSetZoneCategory(w http.ResponseWriter, r *http.Request) {
	category, err := wheel.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		s.errorHandler.HandleValidationError(w, r, "category", err.Error())
		return
	}
	s.cheat("zone_category", func(g *game.Game) bool {
		return g.SetZoneCategory(category)
	})(w, r)
}
