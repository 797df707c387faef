package database

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/studydeck/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedisClient connects to redis when the claim backend needs it. It returns
// a nil client for the database backend.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.Claim.Backend != config.ClaimBackendRedis {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return rdb, nil
}
