// Package historian drains room action records from the Redis queue and
// persists them to Postgres in batches.
package historian

import (
	"context"
	"sync"
	"time"

	"github.com/NGoodma/expat/internal/cache"
	"github.com/NGoodma/expat/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Source yields the next queued record, or nil when none arrived in time.
type Source interface {
	Pop(ctx context.Context) (*cache.RoomActionRecord, error)
}

// Store persists what the historian collects.
type Store interface {
	InsertActions(ctx context.Context, records []cache.RoomActionRecord) error
	MarkRoomAbandoned(ctx context.Context, code string) (bool, error)
}

// RedisSource pops records with BLPOP.
type RedisSource struct {
	Client  redis.Cmdable
	Queue   string
	Timeout time.Duration
}

func (s RedisSource) Pop(ctx context.Context) (*cache.RoomActionRecord, error) {
	return cache.PopRecord(ctx, s.Client, s.Queue, s.Timeout)
}

// PostgresStore writes through the database package.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func (s PostgresStore) InsertActions(ctx context.Context, records []cache.RoomActionRecord) error {
	return database.InsertActions(ctx, s.Pool, records)
}

func (s PostgresStore) MarkRoomAbandoned(ctx context.Context, code string) (bool, error) {
	return database.MarkRoomAbandoned(ctx, s.Pool, code)
}

// Options tune batching and inactivity detection.
type Options struct {
	BatchSize     int
	FlushDelay    time.Duration
	Inactivity    time.Duration
	SweepInterval time.Duration
}

// Service batches records from a Source into a Store and marks rooms that went
// quiet as abandoned.
type Service struct {
	source Source
	store  Store
	logger *logrus.Logger
	opts   Options
	now    func() time.Time

	lastActivity sync.Map // room code -> time.Time

	batchMu sync.Mutex
	batch   []cache.RoomActionRecord
}

// New builds a Service, filling unset options with defaults.
func New(source Source, store Store, logger *logrus.Logger, opts Options) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.FlushDelay <= 0 {
		opts.FlushDelay = 500 * time.Millisecond
	}
	if opts.Inactivity <= 0 {
		opts.Inactivity = 10 * time.Minute
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		source: source,
		store:  store,
		logger: logger,
		opts:   opts,
		now:    time.Now,
		batch:  make([]cache.RoomActionRecord, 0, opts.BatchSize),
	}
}

// Run blocks until ctx is done, then flushes what is left.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); s.readLoop(ctx) }()
	go func() { defer wg.Done(); s.flushLoop(ctx) }()
	go func() { defer wg.Done(); s.inactivityLoop(ctx) }()

	s.logger.Info("historian started")
	wg.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Flush(flushCtx)
	s.logger.Info("historian stopped")
}

func (s *Service) readLoop(ctx context.Context) {
	for ctx.Err() == nil {
		rec, err := s.source.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.WithError(err).Error("pop action record")
			time.Sleep(time.Second)
			continue
		}
		if rec == nil {
			continue
		}
		s.Add(ctx, *rec)
	}
}

func (s *Service) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.FlushDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Flush(ctx)
		}
	}
}

func (s *Service) inactivityLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Add queues a record and flushes once the batch is full.
func (s *Service) Add(ctx context.Context, rec cache.RoomActionRecord) {
	if rec.ActionType == "game_end" {
		s.lastActivity.Delete(rec.RoomCode)
	} else {
		s.lastActivity.Store(rec.RoomCode, s.now())
	}

	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.batch = append(s.batch, rec)
	if len(s.batch) >= s.opts.BatchSize {
		s.flushLocked(ctx)
	}
}

// Flush writes the pending batch.
func (s *Service) Flush(ctx context.Context) {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.flushLocked(ctx)
}

func (s *Service) flushLocked(ctx context.Context) {
	if len(s.batch) == 0 {
		return
	}
	batch := make([]cache.RoomActionRecord, len(s.batch))
	copy(batch, s.batch)

	if err := s.store.InsertActions(ctx, batch); err != nil {
		// keep the batch for the next attempt
		s.logger.WithError(err).Errorf("failed to flush %d actions", len(batch))
		return
	}
	s.batch = s.batch[:0]
	s.logger.Debugf("flushed %d actions", len(batch))
}

// Sweep marks every room idle for longer than the inactivity threshold.
func (s *Service) Sweep(ctx context.Context) {
	now := s.now()
	s.lastActivity.Range(func(key, val interface{}) bool {
		code, ok1 := key.(string)
		last, ok2 := val.(time.Time)
		if !ok1 || !ok2 || now.Sub(last) <= s.opts.Inactivity {
			return true
		}
		changed, err := s.store.MarkRoomAbandoned(ctx, code)
		if err != nil {
			s.logger.WithError(err).WithField("room", code).Error("failed to mark room abandoned")
			return true
		}
		s.lastActivity.Delete(code)
		if changed {
			s.logger.WithField("room", code).Info("room marked abandoned after inactivity")
		}
		return true
	})
}
