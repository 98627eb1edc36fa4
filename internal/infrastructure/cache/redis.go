package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"kinhealth/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	dialTimeout = 5 * time.Second
	ioTimeout   = 2 * time.Second
)

// NewRedisClient backs sessions, the roster cache and pending clarifications.
// Startup fails when Redis does not answer a ping.
func NewRedisClient(cfg config.RedisConfig, log *logrus.Logger) (*redis.Client, error) {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", addr, err)
	}

	log.WithFields(logrus.Fields{"addr": addr, "db": cfg.DB}).Info("Connected to Redis")

	return client, nil
}
