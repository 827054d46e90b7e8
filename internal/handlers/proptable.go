package handlers

import (
	"net/http"

	"github.com/XavierBriggs/fortuna/services/prop-table/internal/table"
)

// GetPropTable renders the hit-rate table
// Query params: date, markets, games, positions, search, sort, dir,
// top_matchups, hide_no_odds, player_id, drilldown
func (h *Handler) GetPropTable(w http.ResponseWriter, r *http.Request) {
	inputs := h.viewInputsFromRequest(r)
	result := h.controller.View(r.Context(), inputs)
	respondJSON(w, http.StatusOK, result)
}

// LoadMorePropTable reveals more rows, escalating the fetch tier when the
// fetched set is exhausted
// POST /api/v1/proptable/more (same query params as GetPropTable)
func (h *Handler) LoadMorePropTable(w http.ResponseWriter, r *http.Request) {
	inputs := h.viewInputsFromRequest(r)
	result := h.controller.LoadMore(r.Context(), inputs)
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) viewInputsFromRequest(r *http.Request) table.ViewInputs {
	q := r.URL.Query()

	// Parameter absent means "everything"; an explicit empty value means the
	// user deselected all markets.
	markets := h.allMarkets
	if q.Has("markets") {
		markets = parseCSVParam(r, "markets")
	}

	playerID := parseIntParam(r, "player_id", 0)

	return table.ViewInputs{
		Date:        q.Get("date"),
		Markets:     markets,
		AllMarkets:  h.allMarkets,
		GameIDs:     parseCSVParam(r, "games"),
		Positions:   parseCSVParam(r, "positions"),
		TopMatchups: parseIntParam(r, "top_matchups", 0),
		Search:      q.Get("search"),
		HideNoOdds:  parseBoolParam(r, "hide_no_odds"),
		Sort:        table.ParseSortField(q.Get("sort")),
		Dir:         table.ParseDirection(q.Get("dir")),
		DrillDown:   parseBoolParam(r, "drilldown"),
		PlayerID:    playerID,
	}
}
