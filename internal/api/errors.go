package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorBuilder accumulates the fields of an EngineError.
type ErrorBuilder struct {
	errType   string
	message   string
	context   map[string]any
	requestID string
	cause     error
}

func NewError(errType, message string) *ErrorBuilder {
	return &ErrorBuilder{
		errType: errType,
		message: message,
		context: make(map[string]any),
	}
}

func (eb *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	eb.context[key] = value
	return eb
}

func (eb *ErrorBuilder) WithRequestID(requestID string) *ErrorBuilder {
	eb.requestID = requestID
	return eb
}

// WithCause records err and exposes its message as context["cause"].
func (eb *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	eb.cause = err
	if err != nil {
		eb.context["cause"] = err.Error()
	}
	return eb
}

// Build stamps the error with the current UTC time.
func (eb *ErrorBuilder) Build() EngineError {
	ctx := eb.context
	if len(ctx) == 0 {
		ctx = nil
	}
	return EngineError{
		Type:      eb.errType,
		Message:   eb.message,
		Context:   ctx,
		RequestID: eb.requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorHandler logs and writes every error response of the API.
type ErrorHandler struct {
	log *zap.Logger
}

func NewErrorHandler(log *zap.Logger) *ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ErrorHandler{log: log}
}

// Respond finishes eb with the request id and writes it with status.
func (eh *ErrorHandler) Respond(w http.ResponseWriter, r *http.Request, status int, eb *ErrorBuilder) {
	if eb.requestID == "" {
		eb.requestID = middleware.GetReqID(r.Context())
	}
	engineErr := eb.Build()
	eh.logError(r, engineErr, eb.cause, status)
	eh.writeErrorResponse(w, status, engineErr)
}

// HandleError writes err with status. Errors that are not EngineErrors are
// reported as internal errors.
func (eh *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error, status int) {
	if engineErr, ok := err.(EngineError); ok {
		if engineErr.RequestID == "" {
			engineErr.RequestID = middleware.GetReqID(r.Context())
		}
		eh.logError(r, engineErr, nil, status)
		eh.writeErrorResponse(w, status, engineErr)
		return
	}
	eh.Respond(w, r, status, NewError(ErrTypeInternal, err.Error()).
		WithContext("path", r.URL.Path).
		WithContext("method", r.Method))
}

// HandleValidationError answers 400 for a bad request field.
func (eh *ErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, field, message string) {
	eh.Respond(w, r, http.StatusBadRequest,
		NewError(ErrTypeValidation, fmt.Sprintf("Validation failed: %s", message)).
			WithContext("field", field))
}

// HandleSessionNotFound answers 404 for an unknown session id.
func (eh *ErrorHandler) HandleSessionNotFound(w http.ResponseWriter, r *http.Request, id string) {
	eh.Respond(w, r, http.StatusNotFound,
		NewError(ErrTypeSessionNotFound, "Session not found").
			WithContext("session_id", id))
}

// logError picks the level from the status and category: 5xx at error,
// rejected player input at debug, the rest at warn.
func (eh *ErrorHandler) logError(r *http.Request, engineErr EngineError, cause error, status int) {
	category := GetErrorCategory(engineErr.Type)

	fields := []zap.Field{
		zap.String("type", engineErr.Type),
		zap.String("category", string(category)),
		zap.Int("status", status),
		zap.String("request_id", engineErr.RequestID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote_ip", r.RemoteAddr),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	for key, value := range engineErr.Context {
		if key == "cause" || key == "token" {
			continue
		}
		fields = append(fields, zap.Any(key, value))
	}

	switch {
	case status >= http.StatusInternalServerError:
		eh.log.Error(engineErr.Message, fields...)
	case category == CategoryValidation, category == CategoryGame:
		eh.log.Debug(engineErr.Message, fields...)
	default:
		eh.log.Warn(engineErr.Message, fields...)
	}
}

func (eh *ErrorHandler) writeErrorResponse(w http.ResponseWriter, status int, engineErr EngineError) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("X-Engine-Version", EngineVersion)
	h.Set("X-Error-Type", engineErr.Type)
	h.Set("X-Error-Category", string(GetErrorCategory(engineErr.Type)))
	w.WriteHeader(status)

	if err := jsonAPI.NewEncoder(w).Encode(engineErr); err != nil {
		eh.log.Error("encode error response", zap.Error(err))
	}
}

// RecoveryHandler turns a handler panic into a 500 internal_error.
func (eh *ErrorHandler) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			eh.log.Error("panic recovered",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
				zap.Any("panic", rvr),
				zap.Stack("stack"))
			eh.writeErrorResponse(w, http.StatusInternalServerError,
				NewError(ErrTypeInternal, "Internal server error").
					WithRequestID(middleware.GetReqID(r.Context())).
					Build())
		}()

		next.ServeHTTP(w, r)
	})
}
