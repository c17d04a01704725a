package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

// Discovery finds today's games and goalies
type Discovery interface {
	Schedule(ctx context.Context) ([]models.ScheduleGame, error)
	TodaysGoalies(ctx context.Context) ([]models.Goalie, error)
}

// Stats summarizes goalie seasons
type Stats interface {
	GoalieStats(ctx context.Context, goalieID int64, season string) (*models.GoalieStats, error)
}

// GoalSides reads and classifies a game's goals
type GoalSides interface {
	Goals(ctx context.Context, gamePk int64) ([]models.GoalEvent, error)
	GoalSides(ctx context.Context, gamePk int64) ([]models.GoalSideAnalysis, error)
}

// Board builds the nightly goalie board
type Board interface {
	Build(ctx context.Context) ([]models.BoardRow, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	discovery Discovery
	stats     Stats
	goalSides GoalSides
	board     Board
	logger    logrus.FieldLogger
	started   time.Time
}

// NewHandler creates a new handler with dependencies
func NewHandler(discovery Discovery, stats Stats, goalSides GoalSides, board Board, logger logrus.FieldLogger) *Handler {
	return &Handler{
		discovery: discovery,
		stats:     stats,
		goalSides: goalSides,
		board:     board,
		logger:    logger,
		started:   time.Now(),
	}
}

// GetGoalies lists the goalies dressed for today's games
func (h *Handler) GetGoalies(w http.ResponseWriter, r *http.Request) {
	goalies, err := h.discovery.TodaysGoalies(r.Context())
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "Failed to fetch goalie data", err)
		return
	}

	respondJSON(w, http.StatusOK, goalies)
}

// GetGoalieStats returns a goalie's season summary
// Query params: season (e.g. 20232024, defaults to current)
func (h *Handler) GetGoalieStats(w http.ResponseWriter, r *http.Request) {
	goalieID, ok := h.pathID(w, r, "goalieID")
	if !ok {
		return
	}

	stats, err := h.stats.GoalieStats(r.Context(), goalieID, r.URL.Query().Get("season"))
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "Failed to fetch goalie stats", err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// GetGoals lists every goal of a game
func (h *Handler) GetGoals(w http.ResponseWriter, r *http.Request) {
	gamePk, ok := h.pathID(w, r, "gamePk")
	if !ok {
		return
	}

	goals, err := h.goalSides.Goals(r.Context(), gamePk)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "Failed to fetch goals for game", err)
		return
	}

	respondJSON(w, http.StatusOK, goals)
}

// GetGoalSides returns the per-goalie side analysis of a game
func (h *Handler) GetGoalSides(w http.ResponseWriter, r *http.Request) {
	gamePk, ok := h.pathID(w, r, "gamePk")
	if !ok {
		return
	}

	analysis, err := h.goalSides.GoalSides(r.Context(), gamePk)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "Failed to analyze goal sides", err)
		return
	}

	respondJSON(w, http.StatusOK, analysis)
}

// GetSchedule lists today's games
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	games, err := h.discovery.Schedule(r.Context())
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "Failed to fetch schedule", err)
		return
	}

	respondJSON(w, http.StatusOK, games)
}

// GetBoard returns the assembled goalie board
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.board.Build(r.Context())
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "Failed to build goalie board", err)
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

// HealthCheck reports the service is up
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        "goalie-service",
		"timestamp":      time.Now().UTC(),
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, r, http.StatusBadRequest, "Invalid "+param, nil)
		return 0, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("error encoding response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"path":   r.URL.Path,
			"status": status,
		}).Error(message)
	}

	respondJSON(w, status, models.ErrorResponse{Error: message})
}
