package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"event-discovery/internal/domain"
	"event-discovery/internal/service"

	"github.com/andybalholm/brotli"
)

// NewRouter initializes the main HTTP handler using Go 1.22+ ServeMux
func NewRouter(eventSvc service.EventService, reviewSvc service.ReviewService, userEventSvc service.UserEventService) http.Handler {
	mux := http.NewServeMux()

	// Mount Event Handler at /events/
	// Requests to /events (no slash) will be redirected to /events/ by ServeMux
	eventHandler := NewEventHandler(eventSvc, reviewSvc, userEventSvc)
	mux.Handle("/events/", http.StripPrefix("/events", eventHandler))

	// Mount the signed-in user's views at /me/
	meHandler := NewMeHandler(eventSvc, userEventSvc)
	mux.Handle("/me/", http.StripPrefix("/me", meHandler))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.APIResponse{Data: "ok"})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, body domain.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"
	switch {
	case domain.IsValidation(err):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status, msg = http.StatusForbidden, err.Error()
	default:
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, domain.APIResponse{Error: msg})
}

func WithCompression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "br") {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Encoding", "br")
		br := brotli.NewWriter(w)
		defer func(br *brotli.Writer) {
			_ = br.Close()
		}(br)
		cw := &compressedWriter{w: w, cw: br}
		next.ServeHTTP(cw, r)
	})
}

type compressedWriter struct {
	w  http.ResponseWriter
	cw *brotli.Writer
}

func (cw *compressedWriter) Header() http.Header         { return cw.w.Header() }
func (cw *compressedWriter) Write(b []byte) (int, error) { return cw.cw.Write(b) }
func (cw *compressedWriter) WriteHeader(statusCode int) {
	cw.w.Header().Del("Content-Length")
	cw.w.WriteHeader(statusCode)
}
