// internal/historian/historian_test.go
package historian

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/NGoodma/expat/internal/cache"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanSource struct {
	ch chan cache.RoomActionRecord
}

func (c *chanSource) Pop(ctx context.Context) (*cache.RoomActionRecord, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case rec := <-c.ch:
		return &rec, nil
	case <-time.After(10 * time.Millisecond):
		return nil, nil
	}
}

type memStore struct {
	mu        sync.Mutex
	inserted  []cache.RoomActionRecord
	batches   int
	abandoned []string
	fail      bool
}

func (m *memStore) InsertActions(_ context.Context, recs []cache.RoomActionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("db down")
	}
	m.inserted = append(m.inserted, recs...)
	m.batches++
	return nil
}

func (m *memStore) MarkRoomAbandoned(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.abandoned = append(m.abandoned, code)
	return true, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inserted)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func record(code string, idx int, kind string) cache.RoomActionRecord {
	return cache.RoomActionRecord{RoomCode: code, ActionIndex: idx, ActionType: kind, Message: kind, Timestamp: int64(idx)}
}

func TestBatchFlushesWhenFull(t *testing.T) {
	store := &memStore{}
	s := New(nil, store, quietLogger(), Options{BatchSize: 2})
	ctx := context.Background()

	s.Add(ctx, record("1000", 1, "turn"))
	assert.Zero(t, store.count())
	s.Add(ctx, record("1000", 2, "turn"))
	assert.Equal(t, 2, store.count())
	assert.Equal(t, 1, store.batches)
}

func TestFailedFlushKeepsBatch(t *testing.T) {
	store := &memStore{fail: true}
	s := New(nil, store, quietLogger(), Options{BatchSize: 10})
	ctx := context.Background()

	s.Add(ctx, record("1000", 1, "turn"))
	s.Flush(ctx)
	assert.Zero(t, store.count())

	store.fail = false
	s.Flush(ctx)
	assert.Equal(t, 1, store.count())
}

func TestSweepMarksIdleRooms(t *testing.T) {
	store := &memStore{}
	s := New(nil, store, quietLogger(), Options{Inactivity: time.Minute})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	s.Add(ctx, record("1000", 1, "turn"))
	s.Add(ctx, record("2000", 1, "turn"))
	s.Add(ctx, record("3000", 1, "turn"))
	s.Add(ctx, record("3000", 2, "game_end"))

	now = now.Add(30 * time.Second)
	s.Add(ctx, record("2000", 2, "turn"))

	now = now.Add(45 * time.Second)
	s.Sweep(ctx)
	assert.Equal(t, []string{"1000"}, store.abandoned, "finished rooms are not tracked")

	s.Sweep(ctx)
	assert.Len(t, store.abandoned, 1, "a room is marked once")
}

func TestRunDrainsSource(t *testing.T) {
	store := &memStore{}
	src := &chanSource{ch: make(chan cache.RoomActionRecord, 4)}
	s := New(src, store, quietLogger(), Options{BatchSize: 100, FlushDelay: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Run(ctx); close(done) }()

	for i := 1; i <= 3; i++ {
		src.ch <- record("1000", i, "turn")
	}
	require.Eventually(t, func() bool { return store.count() == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// Needs a local Redis; set REDIS_ADDR to run it.
func TestRedisSourceRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	queue := "expat_actions_test"
	require.NoError(t, rdb.Del(ctx, queue).Err())

	want := record("1000", 7, "bid")
	require.NoError(t, cache.PushRecord(ctx, rdb, queue, want))

	src := RedisSource{Client: rdb, Queue: queue, Timeout: time.Second}
	got, err := src.Pop(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	got, err = src.Pop(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "an empty queue times out without error")
}
