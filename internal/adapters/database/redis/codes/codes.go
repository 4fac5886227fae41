package codes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

// Storage keeps one password-reset code per email address.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func key(email string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Get returns the live code for email or errorz.ErrInvalidCode when there is none.
func (s *Storage) Get(ctx context.Context, email string) (string, error) {
	code, err := s.redis.Get(ctx, key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", errorz.ErrInvalidCode
	}
	if err != nil {
		return "", fmt.Errorf("get code: %w", err)
	}
	return code, nil
}

// Set replaces any previous code for email.
func (s *Storage) Set(ctx context.Context, email string, code string, expiration time.Duration) error {
	return s.redis.Set(ctx, key(email), code, expiration).Err()
}

func (s *Storage) Clear(ctx context.Context, email string) error {
	return s.redis.Del(ctx, key(email)).Err()
}
