package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/emberfocus/ember/internal/domain"
)

// ─── Users ──────────────────────────────────────────────────────────────────

type createUserRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	u := domain.User{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedAt: time.Now(),
	}
	if err := s.db.CreateUser(r.Context(), u); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "create user failed")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	u, err := s.db.GetUser(r.Context(), id)
	if err != nil {
		writeUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ─── Completions ────────────────────────────────────────────────────────────

type focusCompletionRequest struct {
	UserID          string   `json:"user_id"`
	Project         string   `json:"project,omitempty"`
	Categories      []string `json:"categories,omitempty"`
	DurationSeconds int64    `json:"duration_seconds"`
}

func (s *Server) handleFocusCompletion(w http.ResponseWriter, r *http.Request) {
	var req focusCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	scopes := domain.ScopeSet{Project: req.Project, Categories: req.Categories}
	action, events, err := s.rewarder.RecordFocusCompletion(r.Context(), userID, scopes, req.DurationSeconds)
	if err != nil {
		writeAwardError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"action": action,
		"awards": events,
		"points": eventPoints(events),
	})
}

type taskCompletionRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleTaskCompletion(w http.ResponseWriter, r *http.Request) {
	var req taskCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	action, events, err := s.rewarder.RecordTaskCompletion(r.Context(), userID)
	if err != nil {
		writeAwardError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"action": action,
		"awards": events,
		"points": eventPoints(events),
	})
}

// ─── Stats ──────────────────────────────────────────────────────────────────

func (s *Server) handleAwards(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := s.ledger.History(r.Context(), id, limit)
	if err != nil {
		writeUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"awards": events,
	})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	info, err := s.rewarder.Streak(r.Context(), id)
	if err != nil {
		writeUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	sum, err := s.rewarder.Summarize(r.Context(), id)
	if err != nil {
		writeUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	now := time.Now()

	var window domain.Window
	switch chi.URLParam(r, "window") {
	case "week":
		window = domain.WeekWindow(now)
	case "month":
		window = domain.MonthWindow(now)
	default:
		writeError(w, http.StatusBadRequest, domain.ErrUnknownWindow.Error())
		return
	}

	entries, err := s.board.Rank(r.Context(), window, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "leaderboard query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"window":  window,
		"entries": entries,
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func pathUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return uuid.Nil, false
	}
	return id, true
}

func writeUserError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "request failed")
}

// writeAwardError maps award-flow failures. Calculation and persistence
// details stay out of responses — the caller just learns no points were
// granted for the action.
func writeAwardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidAction):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "award calculation failed")
	}
}

func eventPoints(events []domain.AwardEvent) int64 {
	var sum int64
	for _, e := range events {
		sum += e.Points
	}
	return sum
}
