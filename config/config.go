package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/seo-optimizer/content-analyzer/analyzer"
)

const (
	ENV_FILE     = ".env"
	DEV_ENV_FILE = ".env.development"
	CONFIG_FILE  = "config.yaml"
)

type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`

	// DataDir holds the persisted statistics; empty keeps them in memory
	DataDir string `yaml:"data_dir"`
	// DevMode exposes detailed statistics such as popular keywords
	DevMode bool `yaml:"dev_mode"`
}

type ServerConfig struct {
	Port           string          `yaml:"port"`
	GinMode        string          `yaml:"gin_mode"`
	MaxBodyBytes   int64           `yaml:"max_body_bytes"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is the per-client token bucket for the API
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GeminiConfig configures the optional model-backed stages. The API key is
// only read from the environment.
type GeminiConfig struct {
	APIKey            string `yaml:"-"`
	Model             string `yaml:"model"`
	MaxInputChars     int    `yaml:"max_input_chars"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	RequestsPerDay    int    `yaml:"requests_per_day"`
}

// Enabled reports whether an API key is available
func (g GeminiConfig) Enabled() bool {
	return strings.TrimSpace(g.APIKey) != ""
}

// AnalyzerConfig mirrors analyzer.Options; zero values keep the analyzer defaults
type AnalyzerConfig struct {
	TitleMin             int           `yaml:"title_min"`
	TitleMax             int           `yaml:"title_max"`
	DescriptionMin       int           `yaml:"description_min"`
	DescriptionMax       int           `yaml:"description_max"`
	MinWords             int           `yaml:"min_words"`
	ShortWords           int           `yaml:"short_words"`
	LongParagraphWords   int           `yaml:"long_paragraph_words"`
	MaxAverageParagraph  int           `yaml:"max_average_paragraph"`
	MinTopicLinks        int           `yaml:"min_topic_links"`
	KeywordCap           int           `yaml:"keyword_cap"`
	SentimentThreshold   float64       `yaml:"sentiment_threshold"`
	ExternalTimeout      time.Duration `yaml:"external_timeout"`
	ExternalRetries      *int          `yaml:"external_retries"`
	CacheTTL             time.Duration `yaml:"cache_ttl"`
	MaxCacheSize         int           `yaml:"max_cache_size"`
	DefaultPreviewDomain string        `yaml:"default_preview_domain"`
}

// Options converts the config into analyzer options
func (c AnalyzerConfig) Options() analyzer.Options {
	o := analyzer.DefaultOptions()
	setInt := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	setInt(&o.TitleMin, c.TitleMin)
	setInt(&o.TitleMax, c.TitleMax)
	setInt(&o.DescriptionMin, c.DescriptionMin)
	setInt(&o.DescriptionMax, c.DescriptionMax)
	setInt(&o.MinWords, c.MinWords)
	setInt(&o.ShortWords, c.ShortWords)
	setInt(&o.LongParagraphWords, c.LongParagraphWords)
	setInt(&o.MaxAverageParagraph, c.MaxAverageParagraph)
	setInt(&o.MinTopicLinks, c.MinTopicLinks)
	setInt(&o.KeywordCap, c.KeywordCap)
	setInt(&o.MaxCacheSize, c.MaxCacheSize)
	if c.SentimentThreshold > 0 {
		o.SentimentThreshold = c.SentimentThreshold
	}
	if c.ExternalTimeout > 0 {
		o.ExternalTimeout = c.ExternalTimeout
	}
	if c.ExternalRetries != nil {
		o.ExternalRetries = *c.ExternalRetries
	}
	if c.CacheTTL != 0 {
		o.CacheTTL = c.CacheTTL
	}
	if c.DefaultPreviewDomain != "" {
		o.DefaultPreviewDomain = c.DefaultPreviewDomain
	}
	return o
}

// Default returns the configuration used when no file is present
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:           "8082",
			GinMode:        "release",
			MaxBodyBytes:   1 << 20,
			AllowedOrigins: []string{"*"},
			RateLimit:      RateLimitConfig{RequestsPerSecond: 2, Burst: 5},
		},
		Logging: LoggingConfig{Level: "info"},
		Gemini: GeminiConfig{
			Model:             "gemini-2.5-flash",
			MaxInputChars:     8000,
			RequestsPerMinute: 30,
			RequestsPerDay:    1000,
		},
		DataDir: "data",
	}
}

// Load reads the .env files next to path, then the YAML file at path, then
// applies environment overrides. A missing config file is not an error.
// An empty path means config.yaml in the working directory.
func Load(path string) (AppConfig, error) {
	if path == "" {
		path = CONFIG_FILE
	}
	loadEnv(filepath.Dir(path))

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return AppConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return AppConfig{}, err
	}
	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// loadEnv prefers .env.development for local runs and falls back to .env.
// Variables already set in the environment are never overridden.
func loadEnv(dir string) {
	if err := godotenv.Load(filepath.Join(dir, DEV_ENV_FILE)); err == nil {
		return
	}
	_ = godotenv.Load(filepath.Join(dir, ENV_FILE))
}

func applyEnv(cfg *AppConfig) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Server.GinMode = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DEV_MODE"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEV_MODE: %w", err)
		}
		cfg.DevMode = dev
	}
	return nil
}

func (c AppConfig) validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid gin mode %q", c.Server.GinMode)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if c.Analyzer.KeywordCap > 15 {
		return fmt.Errorf("keyword_cap must be at most 15, got %d", c.Analyzer.KeywordCap)
	}
	return nil
}
