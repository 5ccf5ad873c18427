package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the service settings. Values come from an optional YAML file
// (CONFIG_PATH) and are overridden by non-empty environment variables.
type Config struct {
	Port           string        `yaml:"port"`
	Store          string        `yaml:"store"`
	DBPath         string        `yaml:"db_path"`
	DatabaseURL    string        `yaml:"database_url"`
	SeedPath       string        `yaml:"seed_path"`
	GoogleMapsKey  string        `yaml:"google_maps_api_key"`
	ORSKey         string        `yaml:"ors_api_key"`
	MatrixProvider string        `yaml:"matrix_provider"`
	RedisAddr      string        `yaml:"redis_addr"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	SessionIdleTTL time.Duration `yaml:"session_idle_ttl"`
}

const (
	StoreSqlite   = "sqlite"
	StorePostgres = "postgres"

	ProviderGoogle = "google"
	ProviderORS    = "ors"
)

func defaults() Config {
	return Config{
		Port:           "8080",
		Store:          StoreSqlite,
		DBPath:         "data/app.db",
		SeedPath:       "data/seeds/itineraries.json",
		MatrixProvider: ProviderGoogle,
		HTTPTimeout:    10 * time.Second,
		SessionIdleTTL: 30 * time.Minute,
	}
}

// Load reads .env (if present), the optional YAML file and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = Get("PORT", cfg.Port)
	cfg.Store = strings.ToLower(Get("STORE", cfg.Store))
	cfg.DBPath = Get("DB_PATH", cfg.DBPath)
	cfg.DatabaseURL = Get("DATABASE_URL", cfg.DatabaseURL)
	cfg.SeedPath = Get("SEED_PATH", cfg.SeedPath)
	cfg.GoogleMapsKey = Get("GOOGLE_MAPS_API_KEY", cfg.GoogleMapsKey)
	cfg.ORSKey = Get("ORS_API_KEY", cfg.ORSKey)
	cfg.MatrixProvider = strings.ToLower(Get("MATRIX_PROVIDER", cfg.MatrixProvider))
	cfg.RedisAddr = Get("REDIS_ADDR", cfg.RedisAddr)

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("load config: HTTP_TIMEOUT %q: %w", v, err)
		}
		cfg.HTTPTimeout = d
	}
	if v := os.Getenv("SESSION_IDLE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("load config: SESSION_IDLE_TTL %q: %w", v, err)
		}
		cfg.SessionIdleTTL = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}
	return nil
}

// Validate checks the settings needed to wire the selected adapters.
func (c Config) Validate() error {
	var errs []error

	switch c.Store {
	case StoreSqlite:
		if strings.TrimSpace(c.DBPath) == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite store"))
		}
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE must be %q or %q, got %q", StoreSqlite, StorePostgres, c.Store))
	}

	if strings.TrimSpace(c.GoogleMapsKey) == "" {
		errs = append(errs, errors.New("GOOGLE_MAPS_API_KEY is required"))
	}

	switch c.MatrixProvider {
	case ProviderGoogle:
	case ProviderORS:
		if strings.TrimSpace(c.ORSKey) == "" {
			errs = append(errs, errors.New("ORS_API_KEY is required when MATRIX_PROVIDER=ors"))
		}
	default:
		errs = append(errs, fmt.Errorf("MATRIX_PROVIDER must be %q or %q, got %q", ProviderGoogle, ProviderORS, c.MatrixProvider))
	}

	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT must be positive"))
	}
	if c.SessionIdleTTL < 0 {
		errs = append(errs, errors.New("SESSION_IDLE_TTL must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
