package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xndrleib/Market-Simulation/pkg/errors"
	"github.com/xndrleib/Market-Simulation/pkg/logger"
)

type client struct {
	logger  *logger.Logger
	config  *Config
	cmdable redis.Cmdable
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(logger *logger.Logger, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func (c *client) Connect(ctx context.Context) error {
	if c.config == nil {
		return errors.NewErrorDetails("Redis config is nil", string(errors.RedisConnectionError), "connect")
	}
	if c.config.Addr == "" {
		return errors.NewErrorDetails("Redis address is empty", string(errors.RedisConnectionError), "connect")
	}
	if c.config.ConnectTimeout <= 0 {
		return errors.NewErrorDetails("Invalid Redis connect timeout", string(errors.RedisConnectionError), "connect")
	}
	if c.config.PoolSize <= 0 {
		return errors.NewErrorDetails("Invalid Redis pool size", string(errors.RedisConnectionError), "connect")
	}

	c.cmdable = redis.NewClient(&redis.Options{
		Addr:            c.config.Addr,
		Username:        c.config.Username,
		Password:        c.config.Password,
		DB:              c.config.DB,
		MaxRetries:      c.config.MaxRetries,
		MinRetryBackoff: c.config.MinRetryBackoff,
		MaxRetryBackoff: c.config.MaxRetryBackoff,
		DialTimeout:     c.config.ConnectTimeout,
		ReadTimeout:     c.config.ConnectTimeout,
		WriteTimeout:    c.config.ConnectTimeout,
		PoolSize:        c.config.PoolSize,
		MinIdleConns:    c.config.MinIdleConns,
		MaxIdleConns:    c.config.MaxIdleConns,
		ConnMaxLifetime: c.config.ConnMaxLifetime,
		ConnMaxIdleTime: c.config.ConnMaxIdleTime,
		PoolTimeout:     c.config.PoolTimeout,
	})

	return c.cmdable.Ping(ctx).Err()
}

func (c *client) Disconnect(ctx context.Context) error {
	rc, ok := c.cmdable.(*redis.Client)
	if !ok {
		return errors.NewErrorDetails("Redis client is not connected", string(errors.RedisDisconnectionError), "disconnect")
	}
	return rc.Close()
}

func (c *client) Ping(ctx context.Context) error {
	if err := c.cmdable.Ping(ctx).Err(); err != nil {
		return errors.NewErrorDetails("Failed to ping Redis", string(errors.RedisPingError), "ping")
	}
	return nil
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.cmdable.Get(ctx, c.config.PrefixKey+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.NewErrorDetails("Failed to get value from Redis", string(errors.RedisGetError), "get")
	}
	return val, nil
}

func (c *client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if expiration == 0 {
		expiration = c.config.DefaultTTL
	}
	if err := c.cmdable.Set(ctx, c.config.PrefixKey+key, value, expiration).Err(); err != nil {
		return errors.NewErrorDetails("Failed to set value in Redis", string(errors.RedisSetError), "set")
	}
	return nil
}

func (c *client) Del(ctx context.Context, keys ...string) (int64, error) {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = c.config.PrefixKey + key
	}
	n, err := c.cmdable.Del(ctx, prefixed...).Result()
	if err != nil {
		return 0, errors.NewErrorDetails("Failed to delete keys from Redis", string(errors.RedisDelError), "del")
	}
	return n, nil
}
