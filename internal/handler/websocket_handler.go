package handler

import (
	"net/http"
	"strings"

	"github.com/finboard/finboard-backend/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// MaxConnectionsPerWorkspace caps live dashboard tabs per workspace
const MaxConnectionsPerWorkspace = 10

// WebSocketHandler upgrades dashboard connections and registers them with the
// hub so they receive their workspace's loan and transaction events
type WebSocketHandler struct {
	hub       *websocket.Hub
	validator websocket.TokenValidator
	origins   map[string]struct{}
	anyOrigin bool
	upgrader  ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. An origin of "*" accepts
// every browser origin.
func NewWebSocketHandler(hub *websocket.Hub, validator websocket.TokenValidator, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:       hub,
		validator: validator,
		origins:   make(map[string]struct{}, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			h.anyOrigin = true
			continue
		}
		h.origins[origin] = struct{}{}
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts requests without an Origin header (CLI and server clients)
// and browser requests from the CORS allow list
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.anyOrigin {
		return true
	}
	if _, ok := h.origins[origin]; ok {
		return true
	}

	log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
	return false
}

// connectionToken reads the access token from the token query parameter, which
// browsers must use, or from a bearer Authorization header
func connectionToken(c echo.Context) string {
	if token := c.QueryParam("token"); token != "" {
		return token
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// HandleWS handles GET /ws
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	token := connectionToken(c)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	workspaceID, err := h.validator.ValidateToken(token)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket token rejected")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	if h.hub.ClientCount(workspaceID) >= MaxConnectionsPerWorkspace {
		log.Warn().Int32("workspace_id", workspaceID).Msg("WebSocket connection limit reached")
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many live connections")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the error response
		log.Debug().Err(err).Int32("workspace_id", workspaceID).Msg("WebSocket upgrade failed")
		return nil
	}

	client := websocket.NewClient(conn, workspaceID, h.hub)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()

	log.Info().
		Int32("workspace_id", workspaceID).
		Str("client_id", client.ID()).
		Int("workspace_clients", h.hub.ClientCount(workspaceID)).
		Msg("Dashboard connected")
	return nil
}
