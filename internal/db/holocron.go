package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// SavedFilter is a user-defined edge screen. Opportunities carry the
// filter id/name that produced them.
type SavedFilter struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	MinEdgePct float64  `json:"min_edge_pct"`
	Markets    []string `json:"markets,omitempty"`
	Books      []string `json:"books,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// OpportunityAction is one user interaction with an edge row.
type OpportunityAction struct {
	ID            int64     `json:"id"`
	OpportunityID string    `json:"opportunity_id"`
	ActionType    string    `json:"action_type"` // "favorite", "hide", "expand"
	Operator      string    `json:"operator"`
	ActionTime    time.Time `json:"action_time"`
}

// HolocronDB persists saved filters and opportunity actions.
type HolocronDB struct {
	db *sql.DB
}

// NewHolocronDB opens the Holocron database.
func NewHolocronDB(dsn string) (*HolocronDB, error) {
	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := database.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &HolocronDB{db: database}, nil
}

// Close closes the underlying connection pool.
func (h *HolocronDB) Close() error {
	return h.db.Close()
}

// Ping checks database connectivity.
func (h *HolocronDB) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

// GetSavedFilters returns all saved edge filters.
func (h *HolocronDB) GetSavedFilters(ctx context.Context) ([]SavedFilter, error) {
	query := `
		SELECT f.id, f.name, f.min_edge_pct, f.created_at
		FROM edge_filters f
		ORDER BY f.name
	`

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved filters: %w", err)
	}
	defer rows.Close()

	filters := []SavedFilter{}
	for rows.Next() {
		var f SavedFilter
		if err := rows.Scan(&f.ID, &f.Name, &f.MinEdgePct, &f.CreatedAt); err != nil {
			continue
		}
		filters = append(filters, f)
	}

	return filters, rows.Err()
}

// CreateSavedFilter inserts a new edge filter and returns its id.
func (h *HolocronDB) CreateSavedFilter(ctx context.Context, f SavedFilter) (int64, error) {
	query := `
		INSERT INTO edge_filters (name, min_edge_pct)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int64
	err := h.db.QueryRowContext(ctx, query, f.Name, f.MinEdgePct).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert saved filter: %w", err)
	}

	return id, nil
}

// RecordAction writes one opportunity action and returns it with its id and
// server-side timestamp filled in.
func (h *HolocronDB) RecordAction(ctx context.Context, action OpportunityAction) (OpportunityAction, error) {
	query := `
		INSERT INTO opportunity_actions (opportunity_id, action_type, operator)
		VALUES ($1, $2, $3)
		RETURNING id, action_time
	`

	err := h.db.QueryRowContext(ctx, query,
		action.OpportunityID, action.ActionType, action.Operator,
	).Scan(&action.ID, &action.ActionTime)

	if err != nil {
		return OpportunityAction{}, fmt.Errorf("failed to record action: %w", err)
	}

	return action, nil
}

// HiddenOpportunityIDs returns ids the operator has hidden and not unhidden
// since. A later "unhide" action cancels an earlier "hide".
func (h *HolocronDB) HiddenOpportunityIDs(ctx context.Context, operator string) ([]string, error) {
	query := `
		SELECT DISTINCT ON (opportunity_id) opportunity_id, action_type
		FROM opportunity_actions
		WHERE operator = $1 AND action_type IN ('hide', 'unhide')
		ORDER BY opportunity_id, action_time DESC
	`

	rows, err := h.db.QueryContext(ctx, query, operator)
	if err != nil {
		return nil, fmt.Errorf("failed to query hidden opportunities: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id, actionType string
		if err := rows.Scan(&id, &actionType); err != nil {
			continue
		}
		if actionType == "hide" {
			ids = append(ids, id)
		}
	}

	return ids, rows.Err()
}

// FavoriteOpportunityIDs returns ids the operator has favorited.
func (h *HolocronDB) FavoriteOpportunityIDs(ctx context.Context, operator string) ([]string, error) {
	query := `
		SELECT DISTINCT ON (opportunity_id) opportunity_id, action_type
		FROM opportunity_actions
		WHERE operator = $1 AND action_type IN ('favorite', 'unfavorite')
		ORDER BY opportunity_id, action_time DESC
	`

	rows, err := h.db.QueryContext(ctx, query, operator)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id, actionType string
		if err := rows.Scan(&id, &actionType); err != nil {
			continue
		}
		if actionType == "favorite" {
			ids = append(ids, id)
		}
	}

	return ids, rows.Err()
}
