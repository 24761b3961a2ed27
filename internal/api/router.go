// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quicksortapp/quicksort/internal/auth"
	"github.com/quicksortapp/quicksort/internal/engine"
	"github.com/quicksortapp/quicksort/internal/guide"
	"github.com/quicksortapp/quicksort/internal/service"
)

// Server holds the handlers' dependencies.
type Server struct {
	storage  service.Storage
	engine   *engine.AnalysisEngine
	resolver *guide.Resolver
	auth     *auth.Service
}

// NewServer wires the API handlers to their services.
func NewServer(storage service.Storage, eng *engine.AnalysisEngine, resolver *guide.Resolver, authSvc *auth.Service) *Server {
	return &Server{
		storage:  storage,
		engine:   eng,
		resolver: resolver,
		auth:     authSvc,
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/guides/{category}", s.handleGuideDetails).Methods(http.MethodGet)

	r.Handle("/logout", s.requireAuth(s.handleLogout)).Methods(http.MethodPost)
	r.Handle("/analyze", s.requireAuth(s.handleAnalyze)).Methods(http.MethodPost)
	r.Handle("/history", s.requireAuth(s.handleConfirm)).Methods(http.MethodPost)
	r.Handle("/history", s.requireAuth(s.handleListHistory)).Methods(http.MethodGet)
	r.Handle("/history/{id}", s.requireAuth(s.handleDeleteHistory)).Methods(http.MethodDelete)
	r.Handle("/rank", s.requireAuth(s.handleRank)).Methods(http.MethodGet)

	return r
}
