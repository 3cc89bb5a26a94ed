package memory

import (
	"context"
	"sync"
	"time"
)

// TokenStorage is the in-process revocation list used when no Redis is configured.
type TokenStorage struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewTokenStorage() *TokenStorage {
	return &TokenStorage{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (s *TokenStorage) InvalidateToken(_ context.Context, token string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for t, until := range s.tokens {
		if !now.Before(until) {
			delete(s.tokens, t)
		}
	}

	s.tokens[token] = now.Add(expiration)
	return nil
}

func (s *TokenStorage) IsTokenInvalidated(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.tokens[token]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.tokens, token)
		return false, nil
	}
	return true, nil
}
