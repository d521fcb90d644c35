package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/scentvault/scentvault-backend/config"
	"github.com/scentvault/scentvault-backend/pkg/logger"
)

const (
	pingTimeout = 5 * time.Second
	// per-command bound; a slow cache falls back to the DB
	commandTimeout = 500 * time.Millisecond
)

// Connect opens a client for the search cache and verifies it with PING
func Connect(cfg *config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	logger.Info("Connecting to Redis", map[string]interface{}{
		"address": addr,
		"db":      cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  commandTimeout,
		WriteTimeout: commandTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Info("Redis connection established", map[string]interface{}{
		"address": addr,
	})
	return client, nil
}
