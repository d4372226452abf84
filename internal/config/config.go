// Package config reads process configuration from the environment.
//
// A .env file in the working directory is loaded first when present, so
// local runs can keep DATABASE_URL and friends out of the shell. Variables
// already set in the environment win over the file.
//
// Config is read once in main and passed down. Nothing below cmd/ calls
// os.Getenv.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/social-feed/internal/auth"
)

type Config struct {
	Port int

	// DatabaseURL selects the store:
	//   postgres://... or postgresql://...  → Postgres (pgx)
	//   sqlite://path or file:path          → embedded SQLite
	//   ""                                  → no store; handlers answer 500
	DatabaseURL string

	PasswordScheme auth.Scheme
	BcryptCost     int

	// TokenSecret switches token issuance to signed JWTs when set.
	TokenSecret string

	RequestTimeout time.Duration
	LogLevel       slog.Level
}

// Load reads the optional .env file and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		value := strings.TrimSpace(getenv(key))
		if value == "" {
			return fallback
		}
		return value
	}

	var cfg Config
	var err error

	cfg.Port, err = strconv.Atoi(get("PORT", "8080"))
	if err != nil || cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: invalid PORT %q", get("PORT", ""))
	}

	cfg.DatabaseURL = get("DATABASE_URL", "")

	cfg.PasswordScheme, err = auth.ParseScheme(get("PASSWORD_SCHEME", string(auth.SchemeSHA256)))
	if err != nil {
		return Config{}, fmt.Errorf("config: PASSWORD_SCHEME: %w", err)
	}

	cfg.BcryptCost, err = strconv.Atoi(get("BCRYPT_COST", strconv.Itoa(auth.DefaultBcryptCost)))
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid BCRYPT_COST: %w", err)
	}

	cfg.TokenSecret = get("TOKEN_SECRET", "")

	cfg.RequestTimeout, err = time.ParseDuration(get("REQUEST_TIMEOUT", "30s"))
	if err != nil || cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("config: invalid REQUEST_TIMEOUT %q", get("REQUEST_TIMEOUT", ""))
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("config: invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}
