package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config is the whole process configuration, read from the environment.
type Config struct {
	HTTPAddr  string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	JWTSecret string        `env:"JWT_SECRET" envDefault:"supersecret"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"72h"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"./data/recolecta.db"`

	DB    Database
	Redis Redis
	Log   Log

	LatencyEnabled bool    `env:"LATENCY_ENABLED" envDefault:"false"`
	LatencyScale   float64 `env:"LATENCY_SCALE" envDefault:"1"`
}

// Database is the Postgres connection, configured through DB_* variables.
type Database struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"password"`
	Name     string `env:"DB_NAME" envDefault:"recolecta"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone string `env:"DB_TIMEZONE" envDefault:"UTC"`
}

// DSN builds a libpq keyword/value connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Prefix   string `env:"REDIS_PREFIX" envDefault:"recolecta:"`
}

type Log struct {
	Path  string `env:"LOG_PATH" envDefault:"./logs/app.log"`
	Level string `env:"LOG_LEVEL" envDefault:"debug"`
}

// Load reads .env when present, then parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on env vars")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverRedis:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.LatencyScale < 0 {
		return fmt.Errorf("config: LATENCY_SCALE must not be negative, got %v", c.LatencyScale)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	return nil
}

// EffectiveLatencyScale folds LatencyEnabled into the scale.
func (c Config) EffectiveLatencyScale() float64 {
	if !c.LatencyEnabled {
		return 0
	}
	return c.LatencyScale
}
