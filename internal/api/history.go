package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/store"
)

// requireDB answers 503 when persistence is disabled.
func (s *Server) requireDB(w http.ResponseWriter, r *http.Request) bool {
	if s.db != nil {
		return true
	}
	s.errorHandler.Respond(w, r, http.StatusServiceUnavailable,
		NewError(ErrTypeServiceUnavailable, "History is not enabled"))
	return false
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w, r) {
		return
	}
	page, ok := s.queryInt(w, r, "page", 1)
	if !ok {
		return
	}
	perPage, ok := s.queryInt(w, r, "per_page", 20)
	if !ok {
		return
	}
	state := r.URL.Query().Get("state")
	if state != "" && state != store.StateRunning && state != store.StateEnded {
		s.errorHandler.HandleValidationError(w, r, "state", "state must be running or ended")
		return
	}

	list, err := s.db.ListSessions(store.SessionsQuery{State: state, Page: page, PerPage: perPage})
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	s.flushLive(id)

	sess, err := s.db.GetSession(id)
	if errors.Is(err, store.ErrSessionNotFound) {
		s.errorHandler.HandleSessionNotFound(w, r, id)
		return
	}
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// handleHistoryEvents pages through recorded events with ?after=<seq>.
func (s *Server) handleHistoryEvents(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	after, ok := s.queryInt(w, r, "after", 0)
	if !ok {
		return
	}
	limit, ok := s.queryInt(w, r, "limit", 100)
	if !ok {
		return
	}
	s.flushLive(id)

	if _, err := s.db.GetSession(id); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			s.errorHandler.HandleSessionNotFound(w, r, id)
			return
		}
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}
	events, err := s.db.GetEvents(id, after, limit)
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}

	next := after
	if len(events) > 0 {
		next = events[len(events)-1].Seq
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"events":     events,
		"next_after": next,
	})
}

// handleDeleteHistory removes a finished session and its events. Live
// sessions must be deleted through /sessions first.
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	if _, live := s.sessions.Get(id); live {
		s.errorHandler.Respond(w, r, http.StatusConflict,
			NewError(ErrTypeActionRejected, "Session is still live").
				WithContext("session_id", id))
		return
	}
	err := s.db.DeleteSession(id)
	if errors.Is(err, store.ErrSessionNotFound) {
		s.errorHandler.HandleSessionNotFound(w, r, id)
		return
	}
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// flushLive writes buffered events of a live session so reads see them.
func (s *Server) flushLive(id string) {
	if sess, ok := s.sessions.Get(id); ok && sess.recorder != nil {
		sess.recorder.Flush()
	}
}
