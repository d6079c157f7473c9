// SPDX-License-Identifier: AGPL-3.0-only
package config

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pressly/goose/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	_ "github.com/lib/pq"
)

type AppConfig struct {
	Database  DatabaseConfig
	Hub       HubConfig
	Discovery DiscoveryConfig
	Sync      SyncConfig
	Log       LogConfig

	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	APIToken      string `env:"API_TOKEN"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"./sql/schema"`
}

type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	Name     string `env:"POSTGRES_DB"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	Host     string `env:"POSTGRES_HOST" envDefault:"db"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

type HubConfig struct {
	BaseURL    string        `env:"HUB_API_URL" envDefault:"https://hub.pinata.cloud/v1"`
	APIKey     string        `env:"HUB_API_KEY"`
	PageSize   int           `env:"HUB_PAGE_SIZE" envDefault:"1000"`
	Timeout    time.Duration `env:"HUB_TIMEOUT" envDefault:"60s"`
	MaxRetries uint64        `env:"HUB_MAX_RETRIES" envDefault:"2"`
	MaxPages   int           `env:"HUB_MAX_PAGES" envDefault:"500"`
}

type DiscoveryConfig struct {
	Shards   []int `env:"DISCOVERY_SHARDS" envDefault:"1,2" envSeparator:","`
	Target   int   `env:"DISCOVERY_TARGET" envDefault:"100"`
	PageSize int   `env:"DISCOVERY_PAGE_SIZE" envDefault:"100"`
}

type SyncConfig struct {
	AccountDelay time.Duration `env:"SYNC_ACCOUNT_DELAY" envDefault:"1s"`
	Workers      int           `env:"SYNC_WORKERS" envDefault:"1"`
	Interval     time.Duration `env:"SYNC_INTERVAL" envDefault:"6h"`
}

type LogConfig struct {
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Sync.Workers < 1 {
		cfg.Sync.Workers = 1
	}
	if cfg.Sync.AccountDelay < 0 {
		return nil, fmt.Errorf("SYNC_ACCOUNT_DELAY must not be negative")
	}
	if cfg.Discovery.Target < 0 {
		return nil, fmt.Errorf("DISCOVERY_TARGET must not be negative")
	}

	return cfg, nil
}

// DSN builds the connection string. DATABASE_URL wins when set.
func (c DatabaseConfig) DSN() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}

	if c.Name == "" || c.User == "" || c.Password == "" {
		return "", fmt.Errorf("POSTGRES_DB, POSTGRES_USER and POSTGRES_PASSWORD are required when DATABASE_URL is not set")
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String(), nil
}

// OpenDatabase connects and pings without touching the schema.
func OpenDatabase(ctx context.Context, cfg *AppConfig) (*sql.DB, error) {
	dsn, err := cfg.Database.DSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open the DB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to the DB: %w", err)
	}

	return db, nil
}

// Migrate applies pending migrations and returns the resulting version.
func Migrate(db *sql.DB, dir string) (int64, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.EnsureDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("failed to get DB version: %w", err)
	}
	return version, nil
}

// LoadDatabase opens the store and brings its schema up to date.
func LoadDatabase(ctx context.Context, cfg *AppConfig) (*sql.DB, error) {
	db, err := OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	version, err := Migrate(db, cfg.MigrationsDir)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Printf("Migrations applied successfully. Current DB version: %d", version)

	db.SetMaxOpenConns(cfg.Sync.Workers + 4)
	return db, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogging mirrors the standard logger into a rotating file when
// LOG_FILE is set. The returned Closer releases the file.
func SetupLogging(cfg LogConfig) io.Closer {
	if cfg.File == "" {
		return nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	return rotator
}
