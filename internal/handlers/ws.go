package handlers

import (
	"fmt"
	"net/http"

	"github.com/XavierBriggs/fortuna/services/prop-table/internal/client"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is enforced at the router; the upgrade accepts any origin
		return true
	},
}

// ServeWS upgrades the connection and attaches the client to the hub
// GET /ws
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("⚠️  websocket upgrade failed: %v\n", err)
		return
	}

	c := client.NewClient(uuid.New().String(), conn, h.hub)
	h.hub.Register(c)

	// Pumps outlive the request, so they run on the handler context
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)
}
