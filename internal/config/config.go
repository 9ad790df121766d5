// Package config loads the tracker configuration: a YAML file listing the companies to
// scrape plus environment settings for the service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied by MergeWithDefaults.
const (
	DefaultWorkers   = 4
	DefaultHostRate  = 2.0
	DefaultHostBurst = 1
	DefaultTimeout   = 30 * time.Second
	DefaultMode      = "content"
	DefaultDataDir   = "data"
	DefaultStatusTTL = 20 * time.Minute
)

// Config is the tracker configuration file.
type Config struct {
	Companies []CompanyConfig `yaml:"companies" validate:"dive"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Storage   StorageConfig   `yaml:"storage"`

	// RulesPath points at an optional rule-set override file.
	RulesPath string        `yaml:"rules,omitempty"`
	StatusTTL time.Duration `yaml:"status_ttl,omitempty" validate:"gte=0"`

	DatabaseURL string `yaml:"database_url,omitempty"`
	RedisAddr   string `yaml:"redis_addr,omitempty"`
	NATSURL     string `yaml:"nats_url,omitempty"`
}

// CompanyConfig is one career site.
type CompanyConfig struct {
	Name       string   `yaml:"name" validate:"required"`
	CareersURL string   `yaml:"careers_url" validate:"required,url"`
	PapersURL  string   `yaml:"papers_url,omitempty" validate:"omitempty,url"`
	PathHints  []string `yaml:"path_hints,omitempty"`
	UseBrowser bool     `yaml:"use_browser,omitempty"`
}

// ScraperConfig tunes fetching.
type ScraperConfig struct {
	Workers    int           `yaml:"workers" validate:"gte=0,lte=64"`
	HostRate   float64       `yaml:"host_rate" validate:"gte=0"`
	HostBurst  int           `yaml:"host_burst" validate:"gte=0"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
	Mode       string        `yaml:"mode" validate:"omitempty,oneof=content title"`
	UserAgent  string        `yaml:"user_agent,omitempty"`
	UseBrowser bool          `yaml:"use_browser,omitempty"`
}

// StorageConfig selects the local sinks. An empty SQLitePath disables SQLite.
type StorageConfig struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

// ValidationError reports an invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Scraper: ScraperConfig{
			Workers:   DefaultWorkers,
			HostRate:  DefaultHostRate,
			HostBurst: DefaultHostBurst,
			Timeout:   DefaultTimeout,
			Mode:      DefaultMode,
		},
		Storage:   StorageConfig{DataDir: DefaultDataDir},
		StatusTTL: DefaultStatusTTL,
	}
}

// LoadConfig reads a YAML configuration file. An empty path returns Default().
// The result has defaults merged in but is not validated.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	merged := cfg.MergeWithDefaults(Default())
	return &merged, nil
}

// Validate checks field ranges and that company names are unique.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationError{Field: fe.Namespace(), Message: fmt.Sprintf("failed %q check", fe.Tag())}
		}
		return fmt.Errorf("config error: %w", err)
	}

	seen := make(map[string]bool, len(c.Companies))
	for _, co := range c.Companies {
		key := strings.ToLower(strings.TrimSpace(co.Name))
		if seen[key] {
			return &ValidationError{Field: "companies", Message: fmt.Sprintf("duplicate company %q", co.Name)}
		}
		seen[key] = true
	}

	if c.RulesPath != "" {
		if _, err := os.Stat(c.RulesPath); os.IsNotExist(err) {
			return &ValidationError{Field: "rules", Message: fmt.Sprintf("file not found: %s", c.RulesPath)}
		}
	}
	return nil
}

// MergeWithDefaults returns a copy with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Scraper.Workers == 0 {
		result.Scraper.Workers = defaults.Scraper.Workers
	}
	if result.Scraper.HostRate == 0 {
		result.Scraper.HostRate = defaults.Scraper.HostRate
	}
	if result.Scraper.HostBurst == 0 {
		result.Scraper.HostBurst = defaults.Scraper.HostBurst
	}
	if result.Scraper.Timeout == 0 {
		result.Scraper.Timeout = defaults.Scraper.Timeout
	}
	if result.Scraper.Mode == "" {
		result.Scraper.Mode = defaults.Scraper.Mode
	}
	if result.Scraper.UserAgent == "" {
		result.Scraper.UserAgent = defaults.Scraper.UserAgent
	}
	if result.Storage.DataDir == "" {
		result.Storage.DataDir = defaults.Storage.DataDir
	}
	if result.Storage.SQLitePath == "" {
		result.Storage.SQLitePath = defaults.Storage.SQLitePath
	}
	if result.RulesPath == "" {
		result.RulesPath = defaults.RulesPath
	}
	if result.StatusTTL == 0 {
		result.StatusTTL = defaults.StatusTTL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.NATSURL == "" {
		result.NATSURL = defaults.NATSURL
	}

	// Bools cannot be told apart from unset; the file value wins.
	return result
}

// ApplyEnv overrides connection settings and paths from the environment.
func (c *Config) ApplyEnv() {
	c.Storage.DataDir = GetEnv("DATA_DIR", c.Storage.DataDir)
	c.Storage.SQLitePath = GetEnv("SQLITE_PATH", c.Storage.SQLitePath)
	c.DatabaseURL = GetEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisAddr = GetEnv("REDIS_ADDR", c.RedisAddr)
	c.NATSURL = GetEnv("NATS_URL", c.NATSURL)
	c.RulesPath = GetEnv("RULES_PATH", c.RulesPath)
	c.StatusTTL = GetEnvDuration("SCRAPE_STATUS_TTL", c.StatusTTL)
}

// Company returns the configured company whose name matches name, case-insensitively.
func (c *Config) Company(name string) (CompanyConfig, bool) {
	for _, co := range c.Companies {
		if strings.EqualFold(co.Name, strings.TrimSpace(name)) {
			return co, true
		}
	}
	return CompanyConfig{}, false
}

// CompanyNames lists the configured companies in file order.
func (c *Config) CompanyNames() []string {
	names := make([]string, 0, len(c.Companies))
	for _, co := range c.Companies {
		names = append(names, co.Name)
	}
	return names
}
