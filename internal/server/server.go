// Package server exposes the content index over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/grafana/docindex/internal/apiindex"
	"github.com/grafana/docindex/internal/logging"
)

// RequestIDHeader carries the request correlation id.
const RequestIDHeader = "X-Request-ID"

// Option configures the HTTP server.
type Option func(*Handlers)

// WithLocator enables the raw text endpoint.
func WithLocator(locator *apiindex.Locator) Option {
	return func(h *Handlers) { h.locator = locator }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handlers) { h.logger = logger }
}

// New returns an HTTP server answering index lookups on addr.
func New(addr string, resolver *apiindex.Resolver, opts ...Option) *http.Server {
	handlers := NewHandlers(resolver, opts...)

	return &http.Server{
		Addr:              addr,
		Handler:           handlers.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Routes returns the request multiplexer wrapped in the request logging middleware.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.HandleHealth)
	mux.HandleFunc("GET /"+apiindex.FileName, h.HandleIndex)
	mux.HandleFunc("GET /api/versions", h.HandleVersions)
	mux.HandleFunc("GET /api/{version}", h.HandleSections)
	mux.HandleFunc("GET /api/{version}/{section}", h.HandlePages)
	mux.HandleFunc("GET /api/{version}/{section}/{page}", h.HandleTabs)
	mux.HandleFunc("GET /api/{version}/{section}/{page}/{tab}/examples", h.HandleExamples)
	mux.HandleFunc("GET /api/{version}/{section}/{page}/{tab}/text", h.HandleText)

	return h.withRequestLogging(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handlers) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := logging.ContextWithLogger(r.Context(), h.logger)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		operation := r.Method + " " + r.URL.Path

		start := time.Now()
		logging.RequestStart(ctx, operation)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logging.RequestEnd(ctx, operation, rec.status, time.Since(start), nil)
	})
}
