package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/askfloor/backend/internal/models"
	"github.com/askfloor/backend/internal/sessions"
)

// Server-to-client event names.
const (
	EventSessionUpdate  = "session_update"
	EventSessionDeleted = "session_deleted"
	EventError          = "error"
)

const snapshotTimeout = 5 * time.Second

// SnapshotProvider recomputes a session's current state per audience tier.
// The session service implements it.
type SnapshotProvider interface {
	PublicSnapshot(ctx context.Context, id string) (*models.Session, error)
	AdminSnapshot(ctx context.Context, id string) (*models.Session, error)
}

// RoomPublisher pushes a broadcast to the cross-instance channel so every
// instance's subscriber performs the local fan-out once. Nil when running
// single-instance.
type RoomPublisher interface {
	PublishSession(sessionID, event string, publicData, adminData []byte) error
}

// Broadcaster consumes the session service's mutation notifications and
// turns each into a full-snapshot room broadcast. It is the only bridge
// between the persistence core and the websocket transport.
type Broadcaster struct {
	hub       *Hub
	snapshots SnapshotProvider
	pub       RoomPublisher
	logger    *zap.Logger
}

// NewBroadcaster creates the notification consumer. pub may be nil.
func NewBroadcaster(hub *Hub, snapshots SnapshotProvider, pub RoomPublisher, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{hub: hub, snapshots: snapshots, pub: pub, logger: logger}
}

// SessionUpdated recomputes both snapshot tiers and fans them out to the
// session's room. A session that vanished concurrently is announced as
// deleted so stale room members evict their view.
func (b *Broadcaster) SessionUpdated(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	public, err := b.snapshots.PublicSnapshot(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			b.SessionRemoved(sessionID)
			return
		}
		b.logger.Error("snapshot failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	admin, err := b.snapshots.AdminSnapshot(ctx, sessionID)
	if err != nil {
		b.logger.Error("admin snapshot failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}

	publicData, err := json.Marshal(public)
	if err != nil {
		b.logger.Error("marshal snapshot", zap.Error(err))
		return
	}
	adminData, err := json.Marshal(admin)
	if err != nil {
		b.logger.Error("marshal snapshot", zap.Error(err))
		return
	}
	b.send(sessionID, EventSessionUpdate, publicData, adminData)
}

// SessionRemoved announces that the session no longer exists. Clients are
// expected to evict the view; the room then empties as they leave.
func (b *Broadcaster) SessionRemoved(sessionID string) {
	data, _ := json.Marshal(map[string]string{"session_id": sessionID})
	b.send(sessionID, EventSessionDeleted, data, data)
}

func (b *Broadcaster) send(sessionID, event string, publicData, adminData []byte) {
	if b.pub != nil {
		err := b.pub.PublishSession(sessionID, event, publicData, adminData)
		if err == nil {
			return
		}
		b.logger.Warn("publish failed, delivering locally",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	b.hub.Deliver(sessionID, event, publicData, adminData)
}
