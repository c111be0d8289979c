package httpapi

import (
	"context"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shopfabrik/catalog-service/internal/metrics"
)

type ctxKey int

const ctxKeyRequestID ctxKey = iota

// RequestIDFromContext returns the request id assigned by the RequestID
// middleware, or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// statusRecorder captures the status code written by downstream handlers
// so the logging and metrics middleware can label by it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestID propagates an incoming X-Request-Id or assigns a fresh one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, reqID)))
	})
}

// RequestLogger logs one line per request and records the request
// counter and duration histogram, labeled by method, matched route
// pattern and final status. Both happen after the response is written.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sr, r)

			elapsed := time.Since(start)
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				// Unmatched requests share one label to bound cardinality.
				route = "unmatched"
			}
			status := strconv.Itoa(sr.status)

			metrics.RequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			metrics.RequestDuration.WithLabelValues(r.Method, route, status).Observe(elapsed.Seconds())

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", sr.status).
				Dur("duration", elapsed).
				Str("request_id", RequestIDFromContext(r.Context())).
				Msg("Request handled")
		})
	}
}

// Recoverer converts a handler panic into a 500 response, logs the stack
// and forwards the event to Sentry when a DSN is configured.
func Recoverer(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Interface("panic", rec).
						Str("path", r.URL.Path).
						Str("request_id", RequestIDFromContext(r.Context())).
						Bytes("stack", debug.Stack()).
						Msg("Handler panicked")

					if hub := sentry.CurrentHub(); hub.Client() != nil {
						hub.Recover(rec)
					}

					writeJSON(w, http.StatusInternalServerError, errorBody{
						Error:   "Internal server error",
						Message: "unexpected failure handling request",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
