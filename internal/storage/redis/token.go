package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "taskmanager:revoked:"

// TokenStorage keeps revoked access tokens until they would have expired anyway.
// Keys are token digests, so raw tokens never reach Redis.
type TokenStorage struct {
	client *redis.Client
	prefix string
}

func NewTokenStorage(client *redis.Client) *TokenStorage {
	return &TokenStorage{client: client, prefix: defaultKeyPrefix}
}

func (s *TokenStorage) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.prefix + hex.EncodeToString(sum[:])
}

func (s *TokenStorage) InvalidateToken(ctx context.Context, token string, expiration time.Duration) error {
	if expiration <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(token), 1, expiration).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *TokenStorage) IsTokenInvalidated(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
