package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix  = "qa:session:"
	publishTimeout = 5 * time.Second
)

// redisEnvelope carries one broadcast with both payload tiers across
// instances, so subscribers fan out without recomputing snapshots.
type redisEnvelope struct {
	Event  string          `json:"event"`
	Public json.RawMessage `json:"public"`
	Admin  json.RawMessage `json:"admin"`
	At     int64           `json:"at"`
}

// RedisPubSub bridges room broadcasts across instances via Redis pub/sub.
// It implements both RoomPublisher and RoomSubscriber.
type RedisPubSub struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPubSub creates a Redis pub/sub bridge for session rooms.
func NewRedisPubSub(client *redis.Client, logger *zap.Logger) *RedisPubSub {
	return &RedisPubSub{client: client, logger: logger}
}

// PublishSession publishes one broadcast to the session's channel.
func (r *RedisPubSub) PublishSession(sessionID, event string, publicData, adminData []byte) error {
	body, err := json.Marshal(redisEnvelope{
		Event:  event,
		Public: publicData,
		Admin:  adminData,
		At:     time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return r.client.Publish(ctx, channelPrefix+sessionID, body).Err()
}

// SubscribeSession subscribes to a session's channel and calls handler for
// each broadcast. Returns a cancel function to stop the subscription.
func (r *RedisPubSub) SubscribeSession(sessionID string, handler func(event string, publicData, adminData []byte)) (cancel func(), err error) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	pubsub := r.client.Subscribe(ctx, channelPrefix+sessionID)
	if _, err := pubsub.Receive(ctx); err != nil {
		cancelCtx()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env redisEnvelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					r.logger.Warn("bad room envelope", zap.Error(err))
					continue
				}
				handler(env.Event, env.Public, env.Admin)
			}
		}
	}()
	return func() { cancelCtx() }, nil
}
