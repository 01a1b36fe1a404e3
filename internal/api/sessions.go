package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/config"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/spin"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/store"
)

func (s *Server) animator(mode string) (game.Animator, bool) {
	switch mode {
	case config.AnimationInstant:
		return game.InstantAnimator{}, true
	case config.AnimationDelayed:
		return game.DelayedAnimator{Duration: s.cfg.Server.AnimationDelay}, true
	case config.AnimationManual:
		return game.ManualAnimator{}, true
	}
	return nil, false
}

// handleCreateSession opens a session and enters zone 1.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !s.decodeJSON(w, r, &req, true) {
		return
	}
	if req.Animation == "" {
		req.Animation = s.cfg.Server.Animation
	}
	anim, ok := s.animator(req.Animation)
	if !ok {
		s.errorHandler.HandleValidationError(w, r, "animation", "animation must be instant, delayed or manual")
		return
	}
	if limit := s.cfg.Server.MaxSessions; limit > 0 && s.sessions.Len() >= limit {
		s.rejectSessionLimit(w, r)
		return
	}

	sess := &Session{
		Name:      req.Name,
		Animation: req.Animation,
		CreatedAt: time.Now().UTC(),
	}
	if s.db != nil {
		id, err := s.db.CreateSession(&store.Session{
			Name:      req.Name,
			Seed:      req.Seed,
			Animation: req.Animation,
			CreatedAt: sess.CreatedAt,
		})
		if err != nil {
			s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
			return
		}
		sess.ID = id
		sess.recorder = store.NewRecorder(s.db, id, 0, s.log.Named("recorder"))
	} else {
		sess.ID = uuid.NewString()
	}

	rcfg := s.cfg.Randomizer()
	if req.Seed != nil {
		rcfg.Seed = *req.Seed
		rcfg.UseSeed = true
	}

	var recorders game.MultiRecorder
	if sess.recorder != nil {
		recorders = append(recorders, sess.recorder)
	}
	if s.metrics != nil {
		recorders = append(recorders, s.metrics)
	}

	sess.Feed = NewFeed(s.feedSize)
	sess.Game = game.New(game.Options{
		Profile:    s.cfg.Profile(),
		Randomizer: spin.New(rcfg),
		Animator:   feedAnimator{feed: sess.Feed, next: anim},
		Display:    sess.Feed,
		Audio:      sess.Feed,
		Haptics:    sess.Feed,
		Recorder:   recorders,
		Logger:     s.log.With(zap.String("session_id", sess.ID)),
	})

	if err := s.sessions.Add(sess); err != nil {
		if s.db != nil {
			_ = s.db.DeleteSession(sess.ID)
		}
		s.rejectSessionLimit(w, r)
		return
	}
	sess.Game.Start()

	s.log.Info("session created",
		zap.String("session_id", sess.ID),
		zap.String("animation", sess.Animation),
		zap.Bool("seeded", req.Seed != nil))
	s.writeJSON(w, http.StatusCreated, sess.response())
}

func (s *Server) rejectSessionLimit(w http.ResponseWriter, r *http.Request) {
	s.errorHandler.Respond(w, r, http.StatusServiceUnavailable,
		NewError(ErrTypeSessionLimit, "Too many live sessions").
			WithContext("max_sessions", s.cfg.Server.MaxSessions))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	live := s.sessions.List()
	out := make([]SessionResponse, len(live))
	for i, sess := range live {
		out[i] = sess.response()
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"sessions": out,
		"count":    len(out),
	})
}

// session resolves the {id} URL parameter to a live session, answering
// 404 when there is none.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		s.errorHandler.HandleSessionNotFound(w, r, id)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.response())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Remove(id)
	if !ok {
		s.errorHandler.HandleSessionNotFound(w, r, id)
		return
	}
	s.endSession(sess)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) endSession(sess *Session) {
	snap := sess.Game.Snapshot()
	sess.close()
	if s.db != nil {
		if err := s.db.EndSession(sess.ID, store.StateEnded); err != nil && !errors.Is(err, store.ErrSessionNotFound) {
			s.log.Error("end session", zap.String("session_id", sess.ID), zap.Error(err))
		}
	}
	s.log.Info("session ended",
		zap.String("session_id", sess.ID),
		zap.String("state", string(snap.State)),
		zap.Int("zone", snap.Zone.Zone),
		zap.Int("lifetime", snap.LifetimeReward))
}

// handleFeed returns presentation entries newer than ?after=.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	after, ok := s.queryInt(w, r, "after", 0)
	if !ok {
		return
	}
	limit, ok := s.queryInt(w, r, "limit", 0)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"entries":  sess.Feed.Since(uint64(after), limit),
		"last_seq": sess.Feed.LastSeq(),
	})
}

// act runs one player request. Refused requests answer 409 with the
// state that refused them.
func (s *Server) act(name string, fn func(*game.Game) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		accepted := fn(sess.Game)
		snap := sess.Game.Snapshot()
		if !accepted {
			s.errorHandler.Respond(w, r, http.StatusConflict,
				NewError(ErrTypeActionRejected, "Action not allowed in the current state").
					WithContext("action", name).
					WithContext("state", snap.State).
					WithContext("spinning", snap.Spinning).
					WithContext("pending_bomb", snap.PendingBomb))
			return
		}
		s.writeJSON(w, http.StatusOK, ActionResponse{Accepted: true, State: snap})
	}
}

func (s *Server) handleSpin(w http.ResponseWriter, r *http.Request) {
	s.act("spin", (*game.Game).RequestSpin)(w, r)
}

func (s *Server) handleCompleteSpin(w http.ResponseWriter, r *http.Request) {
	s.act("spin/complete", (*game.Game).CompleteSpin)(w, r)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	s.act("leave", (*game.Game).RequestLeave)(w, r)
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	s.act("continue", (*game.Game).RequestContinue)(w, r)
}

func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	s.act("giveup", (*game.Game).RequestGiveUp)(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.act("reset", func(g *game.Game) bool {
		g.ResetToInitialState()
		return true
	})(w, r)
}
