// Package realtime is the broadcast gateway: it maps session ids to rooms of
// live websocket connections and pushes freshly computed session snapshots to
// every member whenever the session mutates. Delivery is best effort; a slow
// client drops messages rather than blocking the room.
package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// WSMessage is the websocket message envelope, both directions.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// RoomSubscriber subscribes to a session's cross-instance channel and invokes
// the handler for incoming broadcasts. Nil when running single-instance.
type RoomSubscriber interface {
	SubscribeSession(sessionID string, handler func(event string, publicData, adminData []byte)) (cancel func(), err error)
}

// Hub maintains session id -> room membership. Each room has two tiers:
// members that joined with the session's admin password receive the
// admin-inclusive payload, everyone else the public one.
type Hub struct {
	rooms  map[string]map[string]*Client
	subs   map[string]func() // cancel cross-instance subscription per room
	mu     sync.RWMutex
	logger *zap.Logger
	sub    RoomSubscriber
}

// NewHub creates a websocket hub. sub may be nil.
func NewHub(logger *zap.Logger, sub RoomSubscriber) *Hub {
	return &Hub{
		rooms:  make(map[string]map[string]*Client),
		subs:   make(map[string]func()),
		logger: logger,
		sub:    sub,
	}
}

// Join places the client in the session's room, leaving any previous room
// first. A connection is in at most one room. The first member of a room
// starts the cross-instance subscription.
func (h *Hub) Join(c *Client, sessionID string, admin bool) {
	h.mu.Lock()
	h.removeLocked(c)
	c.sessionID = sessionID
	c.admin = admin
	if h.rooms[sessionID] == nil {
		h.rooms[sessionID] = make(map[string]*Client)
		if h.sub != nil {
			cancel, err := h.sub.SubscribeSession(sessionID, func(event string, publicData, adminData []byte) {
				h.Deliver(sessionID, event, publicData, adminData)
			})
			if err != nil {
				h.logger.Warn("room subscription failed",
					zap.String("session_id", sessionID), zap.Error(err))
			} else {
				h.subs[sessionID] = cancel
			}
		}
	}
	h.rooms[sessionID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client joined room",
		zap.String("client_id", c.ID),
		zap.String("session_id", sessionID),
		zap.Bool("admin", admin),
	)
}

// Leave removes the client from its current room, if any. The last member
// leaving cancels the cross-instance subscription.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(c *Client) {
	sessionID := c.sessionID
	if sessionID == "" {
		return
	}
	if room, ok := h.rooms[sessionID]; ok {
		delete(room, c.ID)
		if len(room) == 0 {
			delete(h.rooms, sessionID)
			if cancel, ok := h.subs[sessionID]; ok {
				cancel()
				delete(h.subs, sessionID)
			}
		}
	}
	c.sessionID = ""
	c.admin = false
}

// Deliver sends an event to every member of the session's room, picking the
// payload by tier. Messages to clients with a full send buffer are dropped.
func (h *Hub) Deliver(sessionID, event string, publicData, adminData []byte) {
	h.mu.RLock()
	room := h.rooms[sessionID]
	members := make([]*Client, 0, len(room))
	for _, c := range room {
		members = append(members, c)
	}
	h.mu.RUnlock()

	if len(members) == 0 {
		return
	}
	metricBroadcasts.Inc()
	for _, c := range members {
		data := publicData
		if c.admin {
			data = adminData
		}
		select {
		case c.send <- WSMessage{Event: event, Data: data}:
		default:
			metricDroppedMessages.Inc()
		}
	}
}

// RoomSize returns the number of connections currently in a session's room.
func (h *Hub) RoomSize(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}
