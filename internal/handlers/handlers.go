package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/internal/db"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/edges"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/hub"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/schedule"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/table"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/viewstate"
	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	ctx        context.Context
	controller *table.Controller
	board      *edges.Board
	keeper     *viewstate.Keeper
	holocron   *db.HolocronDB
	schedule   *schedule.Reader
	hub        *hub.Hub

	// allMarkets is the full known market set for this sport; the market
	// filter stage is a no-op when a selection covers it.
	allMarkets []string
}

// NewHandler creates a new handler with dependencies
func NewHandler(
	ctx context.Context,
	controller *table.Controller,
	board *edges.Board,
	keeper *viewstate.Keeper,
	holocron *db.HolocronDB,
	scheduleReader *schedule.Reader,
	h *hub.Hub,
	allMarkets []string,
) *Handler {
	return &Handler{
		ctx:        ctx,
		controller: controller,
		board:      board,
		keeper:     keeper,
		holocron:   holocron,
		schedule:   scheduleReader,
		hub:        h,
		allMarkets: allMarkets,
	}
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "prop-table",
		"clients":   h.hub.GetClientCount(),
	})
}

// GetTodaysGames returns the current slate for the sidebar
// GET /api/v1/games/today
func (h *Handler) GetTodaysGames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	games, err := h.schedule.TodaysGames(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve games", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"count": len(games),
	})
}

// Helper functions

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseCSVParam(r *http.Request, param string) []string {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBoolParam(r *http.Request, param string) bool {
	return r.URL.Query().Get(param) == "true"
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		fmt.Printf("error encoding error response: %v\n", err)
	}
}
