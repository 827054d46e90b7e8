package hub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/internal/client"
	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
)

// Hub maintains the set of active clients and pushes reconciled edge
// snapshots to them
type Hub struct {
	clients   map[*client.Client]bool
	clientsMu sync.RWMutex

	// Inbound snapshots from the edge board
	broadcast chan models.EdgeSnapshot

	register   chan *client.Client
	unregister chan *client.Client

	// Metrics
	totalConnections int64
	totalSnapshots   int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client.Client]bool),
		broadcast:  make(chan models.EdgeSnapshot, 256),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	fmt.Println("✓ Hub started")

	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case snapshot := <-h.broadcast:
			h.broadcastSnapshot(snapshot)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *client.Client) {
	h.register <- c
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *client.Client) {
	h.unregister <- c
}

// Broadcast queues an edge snapshot for delivery to all matching clients
func (h *Hub) Broadcast(snapshot models.EdgeSnapshot) {
	select {
	case h.broadcast <- snapshot:
	default:
		fmt.Println("⚠️  Broadcast buffer full, dropping snapshot")
	}
}

func (h *Hub) registerClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.incrementTotalConnections()

	fmt.Printf("client %s connected (total: %d)\n", c.ID, len(h.clients))
}

func (h *Hub) unregisterClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		fmt.Printf("client %s disconnected (total: %d)\n", c.ID, len(h.clients))
	}
}

func (h *Hub) broadcastSnapshot(snapshot models.EdgeSnapshot) {
	h.clientsMu.RLock()
	clients := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	sent := 0
	dropped := 0

	for _, c := range clients {
		message := models.ServerMessage{
			Type:      models.MessageTypeEdgeSnapshot,
			Payload:   c.FilterSnapshot(snapshot),
			Timestamp: time.Now(),
		}

		if c.TrySend(message) {
			sent++
		} else {
			dropped++
			// Client buffer full - they're too slow, disconnect them
			fmt.Printf("⚠️  client %s buffer full, disconnecting\n", c.ID)
			go h.Unregister(c)
		}
	}

	if sent > 0 {
		h.incrementTotalSnapshots()
	}

	if dropped > 0 {
		fmt.Printf("⚠️  Dropped %d snapshots (slow clients)\n", dropped)
	}
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]interface{} {
	h.clientsMu.RLock()
	activeClients := len(h.clients)
	h.clientsMu.RUnlock()

	h.metricsMu.Lock()
	totalConnections := h.totalConnections
	totalSnapshots := h.totalSnapshots
	h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     activeClients,
		"total_connections":  totalConnections,
		"total_snapshots":    totalSnapshots,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// GetClientCount returns the number of active clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	fmt.Printf("🛑 Shutting down hub (%d active clients)\n", len(h.clients))

	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}

func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics := h.GetMetrics()
			fmt.Printf("📊 Hub Metrics: clients=%d total_connections=%d snapshots=%d\n",
				metrics["active_clients"],
				metrics["total_connections"],
				metrics["total_snapshots"])
		}
	}
}

func (h *Hub) incrementTotalConnections() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalConnections++
}

func (h *Hub) incrementTotalSnapshots() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalSnapshots++
}
