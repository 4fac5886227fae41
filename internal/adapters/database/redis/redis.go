package redis

import (
	"context"
	"fmt"

	"github.com/mevent/event-manager/backend/internal/adapters/database/redis/codes"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
	Codes *codes.Storage
}

type Options struct {
	Host     string
	Port     int
	Password string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{
		Client: client,
		Codes:  codes.NewStorage(client),
	}, nil
}
