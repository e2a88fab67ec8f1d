package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWithoutClient(t *testing.T) {
	prev := Rdb
	Rdb = nil
	defer func() { Rdb = prev }()

	err := PublishRoomAction(context.Background(), RoomActionRecord{RoomCode: "1000"})
	assert.Error(t, err)
}

// Needs a local Redis; set REDIS_ADDR to run it.
func TestPublishAndPop(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	queue := "expat_actions_cache_test"
	require.NoError(t, ConnectRedis(addr, 0, queue))
	defer func() {
		Rdb.Close()
		Rdb = nil
		QueueName = DefaultQueueName
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, Rdb.Del(ctx, queue).Err())

	rec := RoomActionRecord{RoomCode: "1000", ActionIndex: 3, ActorID: "stable-1", ActionType: "buy", Message: "bought", Timestamp: 42}
	require.NoError(t, PublishRoomAction(ctx, rec))

	got, err := PopRecord(ctx, Rdb, queue, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, *got)
}
