package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/quicksortapp/quicksort/internal/common"
	"github.com/quicksortapp/quicksort/internal/model"
)

const maxImageBytes = 10 << 20 // 10 MiB upload cap

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errorMessage prefers the user-facing message of a UserError over the full
// error chain, which may expose internal URLs and SQL details.
func errorMessage(err error) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}

// pipelineStatus maps an analysis pipeline error to an HTTP status.
func pipelineStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrNoGuideAvailable):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUploadFailed), errors.Is(err, common.ErrClassificationFailed):
		return http.StatusBadGateway
	case errors.Is(err, common.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, common.ErrInvalidCredentials), errors.Is(err, common.ErrNotAuthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": time.Now().Format(time.RFC3339)})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, pipelineStatus(err), errorMessage(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":       user.ID,
		"username": user.Username,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := s.auth.Logout(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer func() { _ = file.Close() }()

	pending, err := s.engine.Analyze(r.Context(), user.ID, file, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, pipelineStatus(err), errorMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var pending model.PendingAnalysis
	if err := json.NewDecoder(r.Body).Decode(&pending); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recordID, err := s.engine.Confirm(r.Context(), user.ID, &pending)
	if err != nil {
		writeError(w, pipelineStatus(err), errorMessage(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": recordID})
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	records, err := s.storage.ListHistory(r.Context(), user.ID)
	if err != nil {
		writeError(w, pipelineStatus(err), errorMessage(err))
		return
	}
	if records == nil {
		records = []model.HistoryRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	recordID := mux.Vars(r)["id"]

	if err := s.storage.DeleteHistory(r.Context(), user.ID, recordID); err != nil {
		writeError(w, pipelineStatus(err), errorMessage(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	rank, err := s.storage.UserRank(r.Context(), user.ID)
	if err != nil {
		writeError(w, pipelineStatus(err), errorMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rank":                 rank,
		"total_carbon_reduced": user.TotalCarbonReduced,
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	users, err := s.storage.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, pipelineStatus(err), errorMessage(err))
		return
	}

	type entry struct {
		Username           string  `json:"username"`
		TotalCarbonReduced float64 `json:"total_carbon_reduced"`
	}
	entries := make([]entry, len(users))
	for i, u := range users {
		entries[i] = entry{Username: u.Username, TotalCarbonReduced: u.TotalCarbonReduced}
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGuideDetails(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	details, err := s.resolver.CategoryDetails(r.Context(), category)
	if err != nil {
		writeError(w, pipelineStatus(err), errorMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, details)
}
