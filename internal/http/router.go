// Package http exposes the live transcript over a small read-only API.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dougbradbury/pentecost-sub000/internal/transcript"
)

// NewRouter constructs the HTTP router serving transcript snapshots.
func NewRouter(sink *transcript.Sink) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Route("/v1", func(r chi.Router) {
		// Every transcript column with its ordered messages.
		r.Get("/transcripts", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, sink.Snapshot())
		})
		r.Get("/transcripts/columns", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, sink.Columns())
		})
		// Operator action: start a new transcript.
		r.Post("/transcripts/clear", func(w http.ResponseWriter, _ *http.Request) {
			sink.Clear()
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
