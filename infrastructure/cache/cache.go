package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ytbulkedit/infrastructure/logger"
)

// NewCache connects to Redis and checks the connection with a PING.
func NewCache(ctx context.Context, addr, username, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		logger.GetLogger().WithFields(map[string]interface{}{"addr": addr, "error": err}).Error("Error while connecting to Redis")
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}
