package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
)

const (
	DriverFirestore = "firestore"
	DriverSQLite    = "sqlite"
)

// Config is read once at startup from the environment (and .env when the
// local entrypoint loads it).
type Config struct {
	ProjectID         string `env:"GOOGLE_CLOUD_PROJECT" envDefault:"local-project-id"`
	FirestoreDatabase string `env:"FIRESTORE_DATABASE_ID"`
	StoreDriver       string `env:"STORE_DRIVER" envDefault:"firestore"`
	SQLitePath        string `env:"SQLITE_PATH" envDefault:"events.db"`
	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN"`
	AppEnv            string `env:"APP_ENV" envDefault:"development"`
	PublicRead        bool   `env:"PUBLIC_READ" envDefault:"true"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile           string `env:"LOG_FILE"`
	Timezone          string `env:"TIMEZONE" envDefault:"Asia/Shanghai"`
	Port              string `env:"PORT" envDefault:"5000"`
	LocalOnly         bool   `env:"LOCAL_ONLY"`
	AdminUID          string `env:"FIRESTORE_ADMIN_UID"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and checks the service configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	switch cfg.StoreDriver {
	case DriverFirestore, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverFirestore, DriverSQLite, cfg.StoreDriver)
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Location is the zone event date labels are written in.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
