package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scoutvc/leadctl/pkg/score"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	envSlackWebhook = "SLACK_WEBHOOK_URL"
	envStoreDSN     = "LEADCTL_DB"

	maxSourceResults = 10
	defaultCacheTTL  = 15 * time.Minute
)

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RoutingConfig holds the thresholds and exclusions used to route scored records.
type RoutingConfig struct {
	MinLeadScore   float64  `yaml:"min_lead_score"`
	MinReviewScore float64  `yaml:"min_review_score"`
	ExcludeTerms   []string `yaml:"exclude_terms"`
}

// SourcesConfig lists where sourcing runs pull candidates from.
type SourcesConfig struct {
	Queries    []string `yaml:"queries"`
	Feeds      []string `yaml:"feeds"`
	MaxResults int      `yaml:"max_results"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// CacheConfig selects the source response cache. Empty addr uses
// the in-process cache.
type CacheConfig struct {
	Addr string `yaml:"addr"`
	TTL  string `yaml:"ttl"`
}

// TTLDuration parses the configured TTL, falling back to the default
// when unset or invalid.
func (c CacheConfig) TTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		return defaultCacheTTL
	}
	return d
}

// SMTPConfig holds mail relay settings for run notifications.
type SMTPConfig struct {
	Host string   `yaml:"host"`
	Port int      `yaml:"port"`
	User string   `yaml:"user"`
	Pass string   `yaml:"pass"`
	From string   `yaml:"from"`
	To   []string `yaml:"to"`
}

// NotifyConfig holds notification targets for sourcing runs.
type NotifyConfig struct {
	SlackWebhook string     `yaml:"slack_webhook"`
	SMTP         SMTPConfig `yaml:"smtp"`
}

// Config represents app config object.
type Config struct {
	Logging LoggingConfig  `yaml:"logging"`
	Weights map[string]any `yaml:"weights"`
	Routing RoutingConfig  `yaml:"routing"`
	Sources SourcesConfig  `yaml:"sources"`
	Store   StoreConfig    `yaml:"store"`
	Cache   CacheConfig    `yaml:"cache"`
	Notify  NotifyConfig   `yaml:"notify"`
}

func getDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Weights: map[string]any{
			score.SignalCentralAmerica: 10,
			score.SignalSouthOfMexico:  8,
			score.SignalFintechKeyword: -6,
			score.SignalFemaleFounder:  4,
		},
		Routing: RoutingConfig{
			MinLeadScore:   score.MinLeadScoreDefault,
			MinReviewScore: score.MinReviewScoreDefault,
			ExcludeTerms:   []string{},
		},
		Sources: SourcesConfig{
			Queries:    []string{"startup pre-seed funding announcement Central America"},
			Feeds:      []string{},
			MaxResults: maxSourceResults,
		},
		Store: StoreConfig{Driver: "sqlite"},
		Cache: CacheConfig{TTL: "15m"},
	}
}

// Save writes the config file into the given directory.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one
// with defaults. Environment overrides are applied after the file is read.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dirPath, dirMode); err != nil {
			return nil, fmt.Errorf("failed to create dir %s: %w", dirPath, err)
		}
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(dirPath, getDefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file %s: %w", path, err)
	}

	applyEnv(&c)
	return &c, nil
}

func applyEnv(c *Config) {
	if v := os.Getenv(envSlackWebhook); v != "" {
		c.Notify.SlackWebhook = v
	}
	if v := os.Getenv(envStoreDSN); v != "" {
		c.Store.DSN = v
	}
}

// Validate checks the parts of the config that would otherwise fail
// deep inside a run.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported store driver: %q", c.Store.Driver)
	}
	if c.Sources.MaxResults < 0 || c.Sources.MaxResults > maxSourceResults {
		return fmt.Errorf("sources.max_results must be between 0 and %d, got %d",
			maxSourceResults, c.Sources.MaxResults)
	}
	return nil
}
