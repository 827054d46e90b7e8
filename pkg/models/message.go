package models

import "time"

// Message types for WebSocket communication
const (
	MessageTypeEdgeSnapshot = "edge_snapshot"
	MessageTypeSubscribe    = "subscribe"
	MessageTypeUnsubscribe  = "unsubscribe"
	MessageTypeHeartbeat    = "heartbeat"
	MessageTypeError        = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// EdgeSnapshot is the reconciled edge table pushed to subscribed clients
// after each live refresh. Order is final; added/changed/stale markers are
// presentation hints, stale rows stay in the list de-emphasized.
type EdgeSnapshot struct {
	Rows      []Opportunity              `json:"rows"`
	Added     []string                   `json:"added,omitempty"`
	Stale     []string                   `json:"stale,omitempty"`
	Changed   map[string]ChangeDirection `json:"changed,omitempty"`
	SortField string                     `json:"sort_field"`
	SortDir   string                     `json:"sort_dir"`
	RefreshAt time.Time                  `json:"refresh_at"`
}

// SubscriptionFilter represents client subscription preferences
type SubscriptionFilter struct {
	Sports  []string `json:"sports,omitempty"`  // Filter by sport keys
	Markets []string `json:"markets,omitempty"` // Filter by market keys
	Filters []string `json:"filters,omitempty"` // Filter by saved-filter names
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID          string    `json:"client_id"`
	ConnectedAt       time.Time `json:"connected_at"`
	MessagesSent      int64     `json:"messages_sent"`
	MessagesReceived  int64     `json:"messages_received"`
	LastMessageAt     time.Time `json:"last_message_at"`
	BufferSize        int       `json:"buffer_size"`
	BufferUtilization float64   `json:"buffer_utilization"` // Percentage
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
