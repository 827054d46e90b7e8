package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
	"github.com/go-chi/chi/v5"
)

// GetViewState restores saved filter/sort state for a session. Returns 404
// when nothing usable was saved; a successful load schedules the saved copy
// for removal so a later fresh visit starts clean.
func (h *Handler) GetViewState(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	if session == "" {
		respondError(w, http.StatusBadRequest, "session is required", nil)
		return
	}

	state, ok := h.keeper.Load(r.Context(), session)
	if !ok {
		respondError(w, http.StatusNotFound, "no saved state for session", nil)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// PutViewState saves filter/sort state for a session
func (h *Handler) PutViewState(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	if session == "" {
		respondError(w, http.StatusBadRequest, "session is required", nil)
		return
	}

	var state models.ViewState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	h.keeper.Save(r.Context(), session, state)
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// DeleteViewState discards saved state for a session
func (h *Handler) DeleteViewState(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	if session == "" {
		respondError(w, http.StatusBadRequest, "session is required", nil)
		return
	}

	h.keeper.Clear(r.Context(), session)
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
