package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/askfloor/backend/internal/models"
	"github.com/askfloor/backend/internal/sessions"
	"github.com/askfloor/backend/internal/voter"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	eventTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins in dev; restrict in production
	},
}

// SessionAPI is the slice of the session service the gateway drives.
type SessionAPI interface {
	SnapshotProvider
	CheckAdminPassword(ctx context.Context, id, password string) bool
	AddQuestion(ctx context.Context, sessionID, text string) (*models.Question, error)
	Upvote(ctx context.Context, questionID, sessionID, voterID string) (bool, error)
	Hide(ctx context.Context, questionID, sessionID string) (bool, error)
	Unhide(ctx context.Context, questionID, sessionID string) (bool, error)
	Open(ctx context.Context, id, password string) (*models.Session, error)
	Close(ctx context.Context, id, password string) (*models.Session, error)
	Delete(ctx context.Context, id, password string) (bool, error)
}

// Client is a single websocket connection. It belongs to at most one room at
// a time; joining another room leaves the previous one.
type Client struct {
	ID      string
	VoterID string

	// room membership, maintained by the hub under its lock
	sessionID string
	admin     bool

	hub    *Hub
	svc    SessionAPI
	conn   *websocket.Conn
	send   chan WSMessage
	logger *zap.Logger
}

type joinPayload struct {
	SessionID     string `json:"session_id"`
	AdminPassword string `json:"admin_password,omitempty"`
}

type askPayload struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type questionRef struct {
	QuestionID string `json:"question_id"`
	SessionID  string `json:"session_id"`
}

type adminAction struct {
	SessionID     string `json:"session_id"`
	AdminPassword string `json:"admin_password"`
}

// ServeWS handles the websocket upgrade and runs the client loop. The voter
// identity comes from the token in the query string or the voter cookie; a
// connection without a valid token gets a fresh identity for its lifetime.
func ServeWS(hub *Hub, svc SessionAPI, voters *voter.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			if cookie, err := c.Cookie(voter.CookieName); err == nil {
				token = cookie
			}
		}
		voterID, err := voters.Validate(token)
		if err != nil {
			voterID = uuid.NewString()
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			ID:      uuid.NewString(),
			VoterID: voterID,
			hub:     hub,
			svc:     svc,
			conn:    conn,
			send:    make(chan WSMessage, 256),
			logger:  logger,
		}
		metricConnections.Inc()
		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Leave(c)
		_ = c.conn.Close()
		metricConnections.Dec()
	}()

	c.conn.SetReadLimit(65536)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.handleEvent(msg)
	}
}

func (c *Client) handleEvent(msg WSMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	switch msg.Event {
	case "join":
		var p joinPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.SessionID == "" {
			c.sendError("join requires session_id")
			return
		}
		admin := c.svc.CheckAdminPassword(ctx, p.SessionID, p.AdminPassword)
		c.hub.Join(c, p.SessionID, admin)
		c.pushSnapshot(ctx, p.SessionID, admin)

	case "leave":
		c.hub.Leave(c)

	case "ask":
		var p askPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.SessionID == "" || p.Text == "" {
			c.sendError("ask requires session_id and text")
			return
		}
		if _, err := c.svc.AddQuestion(ctx, p.SessionID, p.Text); err != nil {
			c.sendMutationError(p.SessionID, err)
		}

	case "upvote":
		var p questionRef
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.QuestionID == "" {
			c.sendError("upvote requires question_id and session_id")
			return
		}
		// A repeat vote returns false and triggers no broadcast; nothing to
		// tell the client in that case.
		if _, err := c.svc.Upvote(ctx, p.QuestionID, p.SessionID, c.VoterID); err != nil {
			c.sendError("could not record upvote")
		}

	case "hide", "unhide":
		var p questionRef
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.QuestionID == "" {
			c.sendError(msg.Event + " requires question_id and session_id")
			return
		}
		op := c.svc.Hide
		if msg.Event == "unhide" {
			op = c.svc.Unhide
		}
		if _, err := op(ctx, p.QuestionID, p.SessionID); err != nil {
			c.sendError("could not update question")
		}

	case "open_session", "close_session":
		var p adminAction
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.SessionID == "" {
			c.sendError(msg.Event + " requires session_id and admin_password")
			return
		}
		op := c.svc.Open
		if msg.Event == "close_session" {
			op = c.svc.Close
		}
		if _, err := op(ctx, p.SessionID, p.AdminPassword); err != nil {
			c.sendMutationError(p.SessionID, err)
		}

	case "delete_session":
		var p adminAction
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.SessionID == "" {
			c.sendError("delete_session requires session_id and admin_password")
			return
		}
		if _, err := c.svc.Delete(ctx, p.SessionID, p.AdminPassword); err != nil {
			c.sendMutationError(p.SessionID, err)
		}

	default:
		// ignore
	}
}

// pushSnapshot sends the session's current state to this client only, as the
// immediate response to a join.
func (c *Client) pushSnapshot(ctx context.Context, sessionID string, admin bool) {
	var (
		snap *models.Session
		err  error
	)
	if admin {
		snap, err = c.svc.AdminSnapshot(ctx, sessionID)
	} else {
		snap, err = c.svc.PublicSnapshot(ctx, sessionID)
	}
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			data, _ := json.Marshal(map[string]string{"session_id": sessionID})
			c.enqueue(WSMessage{Event: EventSessionDeleted, Data: data})
			return
		}
		c.logger.Error("join snapshot failed", zap.String("session_id", sessionID), zap.Error(err))
		c.sendError("could not load session")
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		c.logger.Error("marshal snapshot", zap.Error(err))
		return
	}
	c.enqueue(WSMessage{Event: EventSessionUpdate, Data: data})
}

// sendMutationError maps service errors for a mutating event. A vanished
// session evicts the caller the same way a room broadcast would.
func (c *Client) sendMutationError(sessionID string, err error) {
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		data, _ := json.Marshal(map[string]string{"session_id": sessionID})
		c.enqueue(WSMessage{Event: EventSessionDeleted, Data: data})
	case errors.Is(err, sessions.ErrSessionClosed):
		c.sendError("session is not accepting questions")
	default:
		c.logger.Error("mutation failed", zap.String("session_id", sessionID), zap.Error(err))
		c.sendError("operation failed")
	}
}

func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]string{"message": message})
	c.enqueue(WSMessage{Event: EventError, Data: data})
}

func (c *Client) enqueue(msg WSMessage) {
	select {
	case c.send <- msg:
	default:
		metricDroppedMessages.Inc()
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
