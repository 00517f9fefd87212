package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

const (
	StoreBackendPostgres  = "postgres"
	StoreBackendFirestore = "firestore"
	StoreBackendSqlite    = "sqlite"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// storage
	StoreBackend       string `toml:"store_backend"`
	PostgresHost       string `toml:"postgres_host"`
	PostgresPort       string `toml:"postgres_port"`
	PostgresDBName     string `toml:"postgres_db_name"`
	PostgresUser       string `toml:"postgres_user"`
	FirestoreProjectID string `toml:"firestore_project_id"`
	SessionsCollection string `toml:"sessions_collection"`
	UsersCollection    string `toml:"users_collection"`
	SqlitePath         string `toml:"sqlite_path"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// caching
	LogCacheTTLSeconds   int `toml:"log_cache_ttl_seconds"`
	UsersCacheSizeMB     int `toml:"users_cache_size_mb"`
	UsersCacheTTLSeconds int `toml:"users_cache_ttl_seconds"`

	SessionsRateLimitPerMin int      `toml:"sessions_rate_limit_per_min"`
	AllowedOrigins          []string `toml:"allowed_origins"`

	// DefaultUser preselects the user in the form and the performance filters
	DefaultUser string `toml:"default_user"`
	// Catalog maps exercise type -> exercise names
	Catalog map[string][]string `toml:"catalog"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, errors.New("development config section missing")
		}
		t.Development.Environment = "development"
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, errors.New("production config section missing")
		}
		t.Production.Environment = "production"
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the section for env,
// with defaults filled in for the values left out.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", cfg.Environment, err)
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.StoreBackend == "" {
		c.StoreBackend = StoreBackendPostgres
	}
	if c.SessionsCollection == "" {
		c.SessionsCollection = "gym_sessions"
	}
	if c.UsersCollection == "" {
		c.UsersCollection = "gym_users"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.LogCacheTTLSeconds == 0 {
		c.LogCacheTTLSeconds = 600
	}
	if c.UsersCacheSizeMB == 0 {
		c.UsersCacheSizeMB = 1
	}
	if c.UsersCacheTTLSeconds == 0 {
		c.UsersCacheTTLSeconds = 60
	}
	if c.SessionsRateLimitPerMin == 0 {
		c.SessionsRateLimitPerMin = 30
	}
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendPostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			return errors.New("postgres store needs postgres_host, postgres_port and postgres_db_name")
		}
	case StoreBackendFirestore:
		if c.FirestoreProjectID == "" {
			return errors.New("firestore store needs firestore_project_id")
		}
	case StoreBackendSqlite:
		if c.SqlitePath == "" {
			return errors.New("sqlite store needs sqlite_path")
		}
	default:
		return fmt.Errorf("unknown store backend: %s", c.StoreBackend)
	}

	for exType, names := range c.Catalog {
		if len(names) == 0 {
			return fmt.Errorf("catalog exercise type [%s] has no exercises", exType)
		}
	}

	return nil
}

// Secrets are never kept in the TOML file.
type Secrets struct {
	SentryDSN                string `env:"SENTRY_DSN"`
	RedisPassword            string `env:"GYMLOG_REDIS_PASS"`
	PostgresPassword         string `env:"GYMLOG_POSTGRES_PASS"`
	FirestoreCredentialsJSON string `env:"GYMLOG_FIRESTORE_CREDENTIALS"`
	HoneycombEnabled         bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey          string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName          string `env:"OTEL_SERVICE_NAME, default=gymlog"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	var s Secrets
	if err := envconfig.Process(ctx, &s); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}

func LoadSecretsFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var s Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}
