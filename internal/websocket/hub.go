package websocket

import (
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	WorkspaceID() int32
	Send(data []byte) error
	Close() error
}

// Hub tracks live dashboard connections per workspace.
// It is safe for concurrent use.
type Hub struct {
	workspaces map[int32]map[string]ClientInterface
	mu         sync.RWMutex
	logger     zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		workspaces: make(map[int32]map[string]ClientInterface),
		logger:     log.With().Str("component", "ws_hub").Logger(),
	}
}

// Register adds a client to the hub under its workspace
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	workspaceID := client.WorkspaceID()
	if h.workspaces[workspaceID] == nil {
		h.workspaces[workspaceID] = make(map[string]ClientInterface)
	}
	h.workspaces[workspaceID][client.ID()] = client

	h.logger.Debug().
		Int32("workspace_id", workspaceID).
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	workspaceID := client.WorkspaceID()
	clients, ok := h.workspaces[workspaceID]
	if !ok {
		return
	}
	if _, exists := clients[client.ID()]; !exists {
		return
	}

	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.workspaces, workspaceID)
	}

	h.logger.Debug().
		Int32("workspace_id", workspaceID).
		Str("client_id", client.ID()).
		Msg("WebSocket client unregistered")
}

// Broadcast sends an event to all clients in a specific workspace.
// Sends are asynchronous so one slow client cannot stall the caller.
func (h *Hub) Broadcast(workspaceID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		h.logger.Error().
			Err(err).
			Int32("workspace_id", workspaceID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	targets := h.snapshot(workspaceID)
	if len(targets) == 0 {
		return
	}

	for _, client := range targets {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				h.logger.Warn().
					Err(err).
					Int32("workspace_id", workspaceID).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	h.logger.Debug().
		Int32("workspace_id", workspaceID).
		Str("event_type", event.Type).
		Int("client_count", len(targets)).
		Msg("Broadcast event")
}

func (h *Hub) snapshot(workspaceID int32) []ClientInterface {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.workspaces[workspaceID]
	out := make([]ClientInterface, 0, len(clients))
	for _, client := range clients {
		out = append(out, client)
	}
	return out
}

// ClientCount returns the number of clients connected to a workspace
func (h *Hub) ClientCount(workspaceID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.workspaces[workspaceID])
}

// TotalClientCount returns the total number of connected clients across all workspaces
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.workspaces {
		total += len(clients)
	}
	return total
}

// ConnectedWorkspaces returns the IDs of workspaces with at least one client, ascending
func (h *Hub) ConnectedWorkspaces() []int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]int32, 0, len(h.workspaces))
	for id := range h.workspaces {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CloseAll disconnects every client. Called on server shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	all := make([]ClientInterface, 0)
	for _, clients := range h.workspaces {
		for _, client := range clients {
			all = append(all, client)
		}
	}
	h.workspaces = make(map[int32]map[string]ClientInterface)
	h.mu.Unlock()

	for _, client := range all {
		if err := client.Close(); err != nil {
			h.logger.Debug().Err(err).Str("client_id", client.ID()).Msg("Error closing client")
		}
	}
	h.logger.Info().Int("client_count", len(all)).Msg("WebSocket clients closed")
}
