package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/internal/db"
	"github.com/XavierBriggs/fortuna/services/prop-table/internal/edges"
	"github.com/go-chi/chi/v5"
)

// GetEdges returns the reconciled edge-finder table
// Query params: sort, dir
func (h *Handler) GetEdges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("sort") || q.Has("dir") {
		h.board.SetSort(edges.ParseSortField(q.Get("sort")), edges.ParseDirection(q.Get("dir")))
	}

	respondJSON(w, http.StatusOK, h.board.Snapshot())
}

// CreateEdgeAction records a user action on an edge row
// POST /api/v1/edges/{id}/actions body: {action_type, operator}
func (h *Handler) CreateEdgeAction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opportunityID := chi.URLParam(r, "id")
	if opportunityID == "" {
		respondError(w, http.StatusBadRequest, "opportunity id is required", nil)
		return
	}

	var req struct {
		ActionType string `json:"action_type"`
		Operator   string `json:"operator"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	validActions := map[string]bool{
		"favorite": true, "unfavorite": true,
		"hide": true, "unhide": true,
		"expand": true, "collapse": true,
	}
	if !validActions[req.ActionType] {
		respondError(w, http.StatusBadRequest, "invalid action_type", nil)
		return
	}

	action, err := h.holocron.RecordAction(ctx, db.OpportunityAction{
		OpportunityID: opportunityID,
		ActionType:    req.ActionType,
		Operator:      req.Operator,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to record action", err)
		return
	}

	switch req.ActionType {
	case "expand":
		h.board.Expand(opportunityID)
	case "collapse":
		h.board.Collapse(opportunityID)
	case "hide", "unhide":
		h.refreshHidden(ctx, req.Operator)
	}

	respondJSON(w, http.StatusCreated, action)
}

// GetSavedFilters returns the operator's saved edge filters
func (h *Handler) GetSavedFilters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filters, err := h.holocron.GetSavedFilters(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve filters", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"filters": filters,
		"count":   len(filters),
	})
}

// CreateSavedFilter creates a new saved edge filter
func (h *Handler) CreateSavedFilter(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var filter db.SavedFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if filter.Name == "" {
		respondError(w, http.StatusBadRequest, "filter name is required", nil)
		return
	}

	id, err := h.holocron.CreateSavedFilter(ctx, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create filter", err)
		return
	}

	filter.ID = id
	respondJSON(w, http.StatusCreated, filter)
}

func (h *Handler) refreshHidden(ctx context.Context, operator string) {
	hidden, err := h.holocron.HiddenOpportunityIDs(ctx, operator)
	if err != nil {
		fmt.Printf("⚠️  failed to refresh hidden opportunities: %v\n", err)
		return
	}
	h.board.SetHidden(hidden)
}
