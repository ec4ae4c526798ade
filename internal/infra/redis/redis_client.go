package redis

import (
	"context"

	"github.com/go-redis/redis/v8"

	"telegram-calorie-diary/internal/config"
)

type RedisClient interface {
	Ping(ctx context.Context) error
	SAdd(ctx context.Context, key string, members ...interface{}) error
	SRem(ctx context.Context, key string, members ...interface{}) error
	SMembers(ctx context.Context, key string) ([]string, error)
	Del(ctx context.Context, keys ...string) error
	Close() error
}

var _ RedisClient = (*redClient)(nil)

type redClient struct {
	cli *redis.Client
}

func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redClient, error) {
	opts := &redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &redClient{cli: c}, nil
}

func (c *redClient) Ping(ctx context.Context) error { return c.cli.Ping(ctx).Err() }

func (c *redClient) SAdd(ctx context.Context, key string, members ...interface{}) error {
	return c.cli.SAdd(ctx, key, members...).Err()
}

func (c *redClient) SRem(ctx context.Context, key string, members ...interface{}) error {
	return c.cli.SRem(ctx, key, members...).Err()
}

func (c *redClient) SMembers(ctx context.Context, key string) ([]string, error) {
	return c.cli.SMembers(ctx, key).Result()
}

func (c *redClient) Del(ctx context.Context, keys ...string) error {
	return c.cli.Del(ctx, keys...).Err()
}

func (c *redClient) Close() error { return c.cli.Close() }
