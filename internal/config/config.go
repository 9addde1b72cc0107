package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	SentryDSN         string `envconfig:"SENTRY_DSN"`
	SentryEnvironment string `envconfig:"SENTRY_ENVIRONMENT" default:"development"`

	PageSize         int    `envconfig:"PAGE_SIZE" default:"20"`
	CookbookPageSize int    `envconfig:"COOKBOOK_PAGE_SIZE" default:"40"`
	FreeSearchLimit  int    `envconfig:"FREE_SEARCH_LIMIT" default:"160"`
	FuzzyColumn      string `envconfig:"FUZZY_COLUMN" default:"slug"`

	HistogramBins     int           `envconfig:"HISTOGRAM_BINS" default:"300"`
	HistogramInterval time.Duration `envconfig:"HISTOGRAM_INTERVAL" default:"1h"`

	RedisURL      string        `envconfig:"REDIS_URL"`
	SimilarityTTL time.Duration `envconfig:"SIMILARITY_CACHE_TTL" default:"24h"`

	S3Endpoint     string        `envconfig:"S3_ENDPOINT"`
	S3AccessKey    string        `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey    string        `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket       string        `envconfig:"S3_BUCKET" default:"greenplate-images"`
	S3Region       string        `envconfig:"S3_REGION" default:"us-east-1"`
	ImageURLExpiry time.Duration `envconfig:"IMAGE_URL_EXPIRY" default:"1h"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("GREENPLATE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.PageSize <= 0 || c.CookbookPageSize <= 0 {
		return fmt.Errorf("page sizes must be positive")
	}
	if c.FreeSearchLimit <= 0 {
		return fmt.Errorf("free search limit must be positive")
	}
	if c.HistogramBins <= 0 {
		return fmt.Errorf("histogram bins must be positive")
	}
	if c.FuzzyColumn != "slug" && c.FuzzyColumn != "title" {
		return fmt.Errorf("fuzzy column must be slug or title, got %q", c.FuzzyColumn)
	}
	return nil
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}
