package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rryowa/taskmanager/internal/metrics"
	"github.com/rryowa/taskmanager/internal/storage/memory"
	"github.com/rryowa/taskmanager/internal/util"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testServices struct {
	clock   *fakeClock
	store   *memory.Storage
	revoked *memory.TokenStorage
	tokens  *TokenService
	auth    *AuthService
	cascade *CascadeService
	lists   *ListService
	tasks   *TaskService
}

func testTokenConfig() util.TokenConfig {
	return util.TokenConfig{
		JwtSecret:  "test-secret",
		AccessTTL:  15 * time.Minute,
		SessionTTL: 240 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	log := zap.NewNop().Sugar()
	clock := &fakeClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	store := memory.NewStorage(log)
	revoked := memory.NewTokenStorage()
	cfg := testTokenConfig()

	tokens := NewTokenService(cfg, revoked)
	tokens.now = clock.Now
	auth := NewAuthService(tokens, store, cfg, log)
	auth.now = clock.Now
	cascade := NewCascadeService(store, log, metrics.New(), time.Second)

	return &testServices{
		clock:   clock,
		store:   store,
		revoked: revoked,
		tokens:  tokens,
		auth:    auth,
		cascade: cascade,
		lists:   NewListService(store, cascade, log),
		tasks:   NewTaskService(store, store, log),
	}
}

func (s *testServices) register(t *testing.T, email string) *AuthResult {
	t.Helper()
	res, err := s.auth.Register(context.Background(), email, "password123")
	require.NoError(t, err)
	return res
}
