package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/config"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/metrics"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/store"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	maxBodyBytes   = 1 << 20
	requestTimeout = 60 * time.Second
	cheatHeader    = "X-Cheat-Token"
)

// TokenVerifier checks cheat tokens. *cheatauth.Guard implements it.
type TokenVerifier interface {
	Verify(token string) bool
	Configured() bool
}

// Options wires a Server. Config is required; a nil DB disables history,
// a nil Cheats disables the cheat routes and a nil Gatherer hides /metrics.
type Options struct {
	Config   *config.Config
	DB       store.DB
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Cheats   TokenVerifier
	Logger   *zap.Logger
	FeedSize int
}

// Server handles HTTP requests
type Server struct {
	cfg          *config.Config
	db           store.DB
	metrics      *metrics.Metrics
	gatherer     prometheus.Gatherer
	cheats       TokenVerifier
	sessions     *Registry
	errorHandler *ErrorHandler
	log          *zap.Logger
	feedSize     int
	startTime    time.Time
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		cfg:          cfg,
		db:           opts.DB,
		metrics:      opts.Metrics,
		gatherer:     opts.Gatherer,
		cheats:       opts.Cheats,
		sessions:     NewRegistry(cfg.Server.MaxSessions, opts.Metrics),
		errorHandler: NewErrorHandler(log),
		log:          log,
		feedSize:     opts.FeedSize,
		startTime:    time.Now(),
	}

	log.Info("api server configured",
		zap.Bool("persistence", s.db != nil),
		zap.Bool("cheats", s.cheats != nil),
		zap.Bool("metrics", s.gatherer != nil),
		zap.Int("max_sessions", cfg.Server.MaxSessions),
		zap.String("animation", cfg.Server.Animation))
	return s
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", cheatHeader},
		ExposedHeaders:   []string{"X-Engine-Version", "X-Error-Type", "X-Error-Category"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/version", s.handleVersion)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Get("/", s.handleListSessions)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Get("/feed", s.handleFeed)

				r.Post("/spin", s.handleSpin)
				r.Post("/spin/complete", s.handleCompleteSpin)
				r.Post("/leave", s.handleLeave)
				r.Post("/continue", s.handleContinue)
				r.Post("/giveup", s.handleGiveUp)
				r.Post("/reset", s.handleReset)

				if s.cheats != nil {
					r.Route("/cheats", s.cheatRoutes)
				}
			})
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleListHistory)
			r.Get("/{id}", s.handleGetHistory)
			r.Get("/{id}/events", s.handleHistoryEvents)
			r.Delete("/{id}", s.handleDeleteHistory)
		})

		r.Post("/simulate", s.handleSimulate)
	})

	return r
}

// Close ends every live session and flushes their events.
func (s *Server) Close() {
	for _, sess := range s.sessions.Drain() {
		s.endSession(sess)
	}
}

// requestLogger logs one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	})
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := jsonAPI.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst as is
// when allowEmpty is set.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := jsonAPI.NewDecoder(r.Body).Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		s.errorHandler.Respond(w, r, http.StatusBadRequest,
			NewError(ErrTypeInvalidParams, "Invalid JSON in request body").
				WithCause(err))
		return false
	}
	return true
}

// queryInt parses an optional non-negative integer query parameter.
func (s *Server) queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		s.errorHandler.HandleValidationError(w, r, name, name+" must be a non-negative integer")
		return 0, false
	}
	return v, true
}
