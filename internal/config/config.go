package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Matcher    MatcherConfig    `yaml:"matcher"`
	Importer   ImporterConfig   `yaml:"importer"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RateLimitPerMin int           `yaml:"rate_limit_per_min" env:"SERVER_RATE_LIMIT_PER_MIN" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// CatalogConfig holds product catalog service settings.
type CatalogConfig struct {
	BaseURL string        `yaml:"base_url" env:"CATALOG_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout"  env:"CATALOG_TIMEOUT"  env-default:"10s"`
}

// ClassifierConfig holds classification service settings. Models is a
// comma-separated, ordered fallback list; the first parseable response wins.
type ClassifierConfig struct {
	APIKey    string        `yaml:"api_key"    env:"CLASSIFIER_API_KEY"`
	ModelsRaw string        `yaml:"models"     env:"CLASSIFIER_MODELS"     env-default:"claude-sonnet-4-5,claude-3-5-haiku-latest"`
	Timeout   time.Duration `yaml:"timeout"    env:"CLASSIFIER_TIMEOUT"    env-default:"45s"`
	MaxTokens int64         `yaml:"max_tokens" env:"CLASSIFIER_MAX_TOKENS" env-default:"2048"`

	// Models is parsed from ModelsRaw during validation.
	Models []string `yaml:"-" env:"-"`
}

// MatcherConfig holds similarity matcher thresholds.
type MatcherConfig struct {
	HighThreshold float64 `yaml:"high_threshold" env:"MATCHER_HIGH_THRESHOLD" env-default:"0.85"`
	LowThreshold  float64 `yaml:"low_threshold"  env:"MATCHER_LOW_THRESHOLD"  env-default:"0.55"`
	AmbiguityBand float64 `yaml:"ambiguity_band" env:"MATCHER_AMBIGUITY_BAND" env-default:"0.05"`
}

// ImporterConfig holds import orchestrator limits.
type ImporterConfig struct {
	MaxItems int `yaml:"max_items" env:"IMPORTER_MAX_ITEMS" env-default:"300"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
