package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost:3000", cfg.Server.ServerAddr)
	assert.Equal(t, 15*time.Minute, cfg.Token.AccessTTL)
	assert.Equal(t, 10*24*time.Hour, cfg.Token.SessionTTL)
	assert.Equal(t, 10, cfg.Token.BcryptCost)
	assert.Equal(t, []byte("secret"), cfg.Token.JwtSecretKey())
	assert.Equal(t, StorageMongo, cfg.Storage.Driver)
	assert.Equal(t, "mongodb://127.0.0.1:27017/TaskManager", cfg.Storage.MongoURI)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Cascade.Timeout)
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL", "1m")
	t.Setenv("SESSION_TTL", "48h")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("SERVER_ADDRESS", ":8080")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.Token.AccessTTL)
	assert.Equal(t, 48*time.Hour, cfg.Token.SessionTTL)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, ":8080", cfg.Server.ServerAddr)
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "unknown driver", env: map[string]string{"JWT_SECRET": "s", "STORAGE_DRIVER": "sqlite"}},
		{name: "postgres without dsn", env: map[string]string{"JWT_SECRET": "s", "STORAGE_DRIVER": "postgres", "DATABASE_URL": ""}},
		{name: "zero access ttl", env: map[string]string{"JWT_SECRET": "s", "ACCESS_TOKEN_TTL": "0s"}},
		{name: "bcrypt cost too low", env: map[string]string{"JWT_SECRET": "s", "BCRYPT_COST": "1"}},
		{name: "bad duration", env: map[string]string{"JWT_SECRET": "s", "SESSION_TTL": "ten days"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := NewConfig()
			require.Error(t, err)
		})
	}
}
