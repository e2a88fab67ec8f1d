// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. It stays nil when Redis is not configured,
// in which case action records are dropped.
var Rdb *redis.Client

// DefaultQueueName is the Redis list the historian drains.
const DefaultQueueName = "expat_actions"

// QueueName is the list PublishRoomAction pushes to.
var QueueName = DefaultQueueName

// RoomActionRecord is one narrative log line of a room, as stored by the historian.
type RoomActionRecord struct {
	RoomCode    string `json:"room_code"`
	ActionIndex int    `json:"action_index"`
	ActorID     string `json:"actor_id,omitempty"`
	ActionType  string `json:"action_type"`
	Message     string `json:"message"`
	Timestamp   int64  `json:"timestamp"`
}

// ConnectRedis initializes the global client and checks it with a PING.
func ConnectRedis(addr string, db int, queue string) error {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	Rdb = client
	if queue != "" {
		QueueName = queue
	}
	return nil
}

// PublishRoomAction serializes the record and pushes it onto the historian queue.
func PublishRoomAction(ctx context.Context, record RoomActionRecord) error {
	if Rdb == nil {
		return fmt.Errorf("redis client is not connected")
	}
	return PushRecord(ctx, Rdb, QueueName, record)
}

// PushRecord RPUSHes record onto queue using the given client.
func PushRecord(ctx context.Context, rdb redis.Cmdable, queue string, record RoomActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal RoomActionRecord: %w", err)
	}
	if err := rdb.RPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queue, err)
	}
	return nil
}

// PopRecord blocks up to timeout for the next record on queue. It returns
// (nil, nil) when the timeout elapsed without a record.
func PopRecord(ctx context.Context, rdb redis.Cmdable, queue string, timeout time.Duration) (*RoomActionRecord, error) {
	res, err := rdb.BLPop(ctx, timeout, queue).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("BLPop %s: %w", queue, err)
	}
	if len(res) < 2 {
		return nil, nil
	}
	var rec RoomActionRecord
	if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
		return nil, fmt.Errorf("invalid action record: %w", err)
	}
	return &rec, nil
}
