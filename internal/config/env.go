package config

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"HTTP_PORT" default:"3200"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`
}

type StorageEnv struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"local"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:".smartscheduler/data"`
	// Postgres settings (used when Type == "postgres")
	PostgresURL string `envconfig:"POSTGRES_URL"`
}

type AuthEnv struct {
	JWTSecret      string `envconfig:"JWT_SECRET" required:"true"`
	TokenTTLHours  int    `envconfig:"TOKEN_TTL_HOURS" default:"72"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

type Env struct {
	BaseEnv
	StorageEnv
	AuthEnv
}

const namespace = "SMARTSCHEDULER"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}
