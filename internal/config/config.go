// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port     string
	LogLevel string

	RedisAddr  string
	RedisDB    int
	QueueName  string
	BatchSize  int
	FlushDelay time.Duration

	// RoomInactivity is how long the historian waits before flagging a silent room.
	RoomInactivity time.Duration

	PostgresUser     string
	PostgresPassword string
	PGHost           string
	PGPort           string
	PGDatabase       string

	BotTick     time.Duration
	BotDelay    time.Duration
	RejoinGrace time.Duration
	FinishedTTL time.Duration
}

// Load reads every setting, falling back to defaults for unset variables.
func Load() Config {
	return Config{
		Port:     getEnv("PORT", "8081"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		RedisAddr:  getEnv("REDIS_ADDR", ""),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		QueueName:  getEnv("HISTORIAN_QUEUE_NAME", "expat_actions"),
		BatchSize:  getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		FlushDelay: time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,

		RoomInactivity: time.Duration(getEnvInt("ROOM_INACTIVITY_TIMEOUT_SEC", 600)) * time.Second,

		PostgresUser:     getEnv("POSTGRES_USER", ""),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PGHost:           getEnv("PG_HOST", ""),
		PGPort:           getEnv("PG_PORT", "5432"),
		PGDatabase:       getEnv("PG_DATABASE", ""),

		BotTick:     time.Duration(getEnvInt("BOT_TICK_MS", 500)) * time.Millisecond,
		BotDelay:    time.Duration(getEnvInt("BOT_DELAY_MS", 1200)) * time.Millisecond,
		RejoinGrace: time.Duration(getEnvInt("REJOIN_GRACE_SEC", 90)) * time.Second,
		FinishedTTL: time.Duration(getEnvInt("FINISHED_ROOM_TTL_SEC", 300)) * time.Second,
	}
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// PostgresEnabled reports whether result persistence is configured.
func (c Config) PostgresEnabled() bool {
	return c.PGHost != ""
}

// PostgresURL builds the pgx connection string.
func (c Config) PostgresURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PGHost,
		c.PGPort,
		c.PGDatabase,
	)
}

// getEnv retrieves an environment variable's value or returns a default.
func getEnv(key, defVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defVal
}

// getEnvInt retrieves an integer environment variable or returns a default.
func getEnvInt(key string, defVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defVal
}
