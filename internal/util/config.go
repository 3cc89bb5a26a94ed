package util

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

//nolint:gochecknoglobals // here its ok
var once sync.Once

func loadDotEnv() {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	})
}

const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	minBcryptCost = 4
	maxBcryptCost = 31
)

type Config struct {
	Server  ServerConfig
	Token   TokenConfig
	Storage StorageConfig
	Redis   RedisConfig
	Cascade CascadeConfig
}

type ServerConfig struct {
	ServerAddr      string        `env:"SERVER_ADDRESS" env-default:"localhost:3000"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" env-default:"10s"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" env-default:"30s"`
	GracefulTimeout time.Duration `env:"GRACEFUL_TIMEOUT" env-default:"5s"`
}

type TokenConfig struct {
	JwtSecret  string        `env:"JWT_SECRET" env-required:"true"`
	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	SessionTTL time.Duration `env:"SESSION_TTL" env-default:"240h"`
	BcryptCost int           `env:"BCRYPT_COST" env-default:"10"`
}

func (c TokenConfig) JwtSecretKey() []byte {
	return []byte(c.JwtSecret)
}

type StorageConfig struct {
	Driver      string `env:"STORAGE_DRIVER" env-default:"mongo"`
	MongoURI    string `env:"MONGO_URI" env-default:"mongodb://127.0.0.1:27017/TaskManager"`
	PostgresDSN string `env:"DATABASE_URL"`
}

// RedisConfig is optional: without an address revoked tokens are kept in memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type CascadeConfig struct {
	Timeout time.Duration `env:"CASCADE_TIMEOUT" env-default:"30s"`
}

// NewConfig loads .env (if present) and decodes the environment.
func NewConfig() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Token.JwtSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if c.Token.AccessTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if c.Token.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Token.BcryptCost < minBcryptCost || c.Token.BcryptCost > maxBcryptCost {
		return fmt.Errorf("BCRYPT_COST must be in [%d, %d]", minBcryptCost, maxBcryptCost)
	}

	switch c.Storage.Driver {
	case StorageMongo:
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is not set")
		}
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Cascade.Timeout <= 0 {
		return fmt.Errorf("CASCADE_TIMEOUT must be positive")
	}
	return nil
}
