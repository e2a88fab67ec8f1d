// cmd/historian is an asynchronous service that pops room action records from
// a Redis queue and persists them to PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NGoodma/expat/internal/cache"
	"github.com/NGoodma/expat/internal/config"
	"github.com/NGoodma/expat/internal/database"
	"github.com/NGoodma/expat/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RedisAddr == "" {
		logger.Fatal("REDIS_ADDR is required")
	}
	if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB, cfg.QueueName); err != nil {
		logger.WithError(err).Fatal("redis")
	}
	defer cache.Rdb.Close()

	if !cfg.PostgresEnabled() {
		logger.Fatal("PG_HOST is required")
	}
	if err := database.ConnectDB(ctx, cfg.PostgresURL()); err != nil {
		logger.WithError(err).Fatal("postgres")
	}
	defer database.Close()

	hs := historian.New(
		historian.RedisSource{Client: cache.Rdb, Queue: cache.QueueName, Timeout: 3 * time.Second},
		historian.PostgresStore{Pool: database.DB},
		logger,
		historian.Options{
			BatchSize:  cfg.BatchSize,
			FlushDelay: cfg.FlushDelay,
			Inactivity: cfg.RoomInactivity,
		},
	)
	hs.Run(ctx)
	logger.Info("historian shutdown complete")
}
