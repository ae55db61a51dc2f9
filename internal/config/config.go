package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// used outside release mode when JWT_SECRET is unset
	developmentSecret = "auction-marketplace-development-secret"
)

// Config holds every setting the server reads from its environment
type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver    string
	DatabaseURL string

	JWTSecret    string
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NATSURL string

	SeedDemo bool
}

// Load reads an optional .env file and then the process environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment and validates it
func FromEnv() (Config, error) {
	cfg := Config{
		Port:          getenv("PORT", "8080"),
		GinMode:       getenv("GIN_MODE", gin.DebugMode),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		DBDriver:      getenv("DB_DRIVER", DriverSQLite),
		DatabaseURL:   getenv("DATABASE_URL", "auctions.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CookieName:    getenv("COOKIE_NAME", "auction_session"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		NATSURL:       os.Getenv("NATS_URL"),
	}

	var err error
	if cfg.CookieSecure, err = getbool("COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}
	if cfg.SeedDemo, err = getbool("SEED_DEMO", false); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = getduration("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = getint("REDIS_DB", 0); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("config: unsupported GIN_MODE %q", c.GinMode)
	}

	if c.JWTSecret == "" {
		if c.GinMode == gin.ReleaseMode {
			return errors.New("config: JWT_SECRET is required in release mode")
		}
		c.JWTSecret = developmentSecret
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.CookieName == "" {
		return errors.New("config: COOKIE_NAME must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("config: invalid PORT %q", c.Port)
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c Config) Addr() string {
	return ":" + c.Port
}

// UsesDevelopmentSecret reports whether sessions are signed with the built-in secret
func (c Config) UsesDevelopmentSecret() bool {
	return c.JWTSecret == developmentSecret
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s %q: %w", k, v, err)
	}
	return b, nil
}

func getint(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", k, v, err)
	}
	return n, nil
}

func getduration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", k, v, err)
	}
	return d, nil
}
