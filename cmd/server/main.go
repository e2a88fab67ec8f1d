// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NGoodma/expat/internal/auth"
	"github.com/NGoodma/expat/internal/cache"
	"github.com/NGoodma/expat/internal/config"
	"github.com/NGoodma/expat/internal/database"
	"github.com/NGoodma/expat/internal/game"
	"github.com/NGoodma/expat/internal/handlers"
	"github.com/NGoodma/expat/internal/middleware"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	if err := auth.Init(); err != nil {
		logger.WithError(err).Fatal("session keys")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RedisAddr != "" {
		if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB, cfg.QueueName); err != nil {
			logger.WithError(err).Warn("redis unavailable, action history disabled")
		} else {
			defer cache.Rdb.Close()
			logger.Infof("publishing room actions to %s", cache.QueueName)
		}
	}
	if cfg.PostgresEnabled() {
		if err := database.ConnectDB(ctx, cfg.PostgresURL()); err != nil {
			logger.WithError(err).Warn("postgres unavailable, results will not be stored")
		} else {
			defer database.Close()
			logger.Infof("connected to database at %s:%s", cfg.PGHost, cfg.PGPort)
		}
	}

	store := game.NewRoomStore(logger)
	store.RejoinGrace = cfg.RejoinGrace
	store.FinishedTTL = cfg.FinishedTTL
	store.OnFinish = func(res game.Result) {
		logger.WithFields(logrus.Fields{"room": res.Code, "winner": res.WinnerName}).Info("room finished")
		if database.DB == nil {
			return
		}
		go func() {
			wctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := database.RecordRoomResult(wctx, database.DB, res); err != nil {
				logger.WithError(err).WithField("room", res.Code).Error("failed to store room result")
			}
		}()
	}
	srv := handlers.NewRoomServer(store, logger)

	go store.RunBots(ctx, cfg.BotTick, cfg.BotDelay)

	logged := middleware.LogMiddleware(logger)
	mux := http.NewServeMux()
	mux.Handle("/ws", logged(handlers.RoomWSHandler(logger, srv)))
	mux.Handle("/rooms", logged(handlers.ListRoomsHandler(srv)))
	mux.Handle("/session", logged(handlers.SessionHandler(logger)))
	mux.Handle("/health", handlers.HealthHandler(srv))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("shutdown")
		}
	}()

	logger.Infof("Running on %s", cfg.Addr())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server exited: %v", err)
	}
	logger.Info("server stopped")
}
