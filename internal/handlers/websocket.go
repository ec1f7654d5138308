package handlers

import (
	"encoding/json"
	"sync"

	"github.com/arnold/simlegacy-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event types sent over WebSocket
const (
	EventGoalUpdated      = "goal_updated"
	EventGoalDeleted      = "goal_deleted"
	EventProgressToggled  = "progress_toggled"
	EventGoalCompleted    = "goal_completed"
	EventHeirChanged      = "heir_changed"
	EventSimUpdated       = "sim_updated"
	EventChallengeUpdated = "challenge_updated"
)

// ClientIDHeader names the tab or device a request comes from. A socket
// opened with the same id in its clientId query is not sent the events its
// own requests cause.
const ClientIDHeader = "X-Client-ID"

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type        string      `json:"type"`
	ChallengeID string      `json:"challengeId"`
	Origin      string      `json:"origin,omitempty"`
	Data        interface{} `json:"data,omitempty"`
}

type connection struct {
	conn     *websocket.Conn
	userID   uuid.UUID
	clientID string
	// writeMu serialises writes; Broadcast runs from many requests at once.
	writeMu sync.Mutex
}

func (c *connection) send(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

func clientID(c *fiber.Ctx) string {
	return c.Get(ClientIDHeader)
}

// Hub tracks the open connections of every challenge being viewed.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[*connection]bool
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[uuid.UUID]map[*connection]bool),
		logger: logger.Named("WSHub"),
	}
}

func (h *Hub) register(challengeID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[challengeID] == nil {
		h.rooms[challengeID] = make(map[*connection]bool)
	}
	h.rooms[challengeID][conn] = true
	h.logger.Debug("Viewer joined",
		zap.String("challengeID", challengeID.String()),
		zap.String("userID", conn.userID.String()),
		zap.String("clientID", conn.clientID),
		zap.Int("viewers", len(h.rooms[challengeID])),
	)
}

func (h *Hub) unregister(challengeID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[challengeID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, challengeID)
		}
	}
}

// Viewers reports how many connections are open for a challenge.
func (h *Hub) Viewers(challengeID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[challengeID])
}

// Broadcast sends an event to every connection on the challenge except the
// one opened by the originating client. An empty origin reaches everyone.
func (h *Hub) Broadcast(challengeID uuid.UUID, origin string, eventType string, data interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.rooms[challengeID]
	if !ok {
		return
	}
	msg, err := json.Marshal(WSEvent{
		Type:        eventType,
		ChallengeID: challengeID.String(),
		Origin:      origin,
		Data:        data,
	})
	if err != nil {
		h.logger.Error("Failed to encode event", zap.String("type", eventType), zap.Error(err))
		return
	}

	for c := range conns {
		if origin != "" && c.clientID == origin {
			continue
		}
		if err := c.send(msg); err != nil {
			h.logger.Warn("WS write failed", zap.String("challengeID", challengeID.String()), zap.Error(err))
		}
	}
}

// WebSocketUpgrade checks the upgrade request and authenticates it with the
// token query parameter or a bearer header.
func (h *Handler) WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		tokenString := c.Query("token")
		if tokenString == "" {
			tokenString = middleware.BearerToken(c)
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		claims, err := middleware.ParseToken(h.cfg.JWTSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		challengeID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid challenge ID"})
		}
		challenge, err := h.repo.GetChallenge(c.UserContext(), challengeID)
		if err != nil || challenge.UserID != claims.UserID {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challenge not found"})
		}

		c.Locals("userId", claims.UserID)
		c.Locals("clientId", c.Query("clientId"))
		return c.Next()
	}
}

// HandleWebSocket keeps a viewer connected to its challenge room until the
// client goes away.
func (h *Handler) HandleWebSocket(c *websocket.Conn) {
	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.Close()
		return
	}
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	client, _ := c.Locals("clientId").(string)

	conn := &connection{conn: c, userID: userID, clientID: client}
	h.hub.register(challengeID, conn)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	h.hub.unregister(challengeID, conn)
	h.logger.Debug("Viewer left",
		zap.String("challengeID", challengeID.String()),
		zap.Int("viewers", h.hub.Viewers(challengeID)),
	)
}
