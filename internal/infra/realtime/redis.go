package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"seatswap/internal/domain/notification"

	"github.com/redis/go-redis/v9"
)

var _ notification.RealtimeEmitter = (*RedisEmitter)(nil)

// RedisEmitter pushes in-app events to per-user Redis pub/sub channels.
// Websocket gateways subscribe to their connected users' channels and relay
// events to the browser. Delivery is best-effort: publishing to a channel
// with no subscribers is not an error.
type RedisEmitter struct {
	client *redis.Client
}

// NewRedisEmitter creates a new Redis-backed realtime emitter.
func NewRedisEmitter(redisAddr, password string, db int) *RedisEmitter {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})
	return &RedisEmitter{client: client}
}

// userChannel names the pub/sub channel carrying a user's events.
func userChannel(userID string) string {
	return fmt.Sprintf("seatswap:user:%s:events", userID)
}

// envelope is the wire shape published to the channel.
type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// EmitToUser publishes a structured event to the user's channel.
func (e *RedisEmitter) EmitToUser(ctx context.Context, userID, event string, payload any) error {
	data, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshaling realtime event: %w", err)
	}

	if err := e.client.Publish(ctx, userChannel(userID), data).Err(); err != nil {
		return fmt.Errorf("publishing realtime event: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (e *RedisEmitter) Close() error {
	return e.client.Close()
}
