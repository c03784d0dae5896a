package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"
	_ "time/tzdata" // zone database for distroless images

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/unisearch/internal/version"
)

// Config holds the unisearch API configuration.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Cache         CacheConfig         `yaml:"cache"`
	Search        SearchConfig        `yaml:"search"`
	Release       ReleaseConfig       `yaml:"release"`
	Auth          AuthConfig          `yaml:"auth"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ElasticsearchConfig holds search engine connection settings.
type ElasticsearchConfig struct {
	Addresses        []string      `yaml:"addresses"`
	Username         string        `yaml:"username"`
	Password         string        `yaml:"password"`
	MaxRetries       int           `yaml:"max_retries"`
	ReadinessTimeout int           `yaml:"readiness_timeout_sec"`
	Breaker          BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds circuit breaker settings for engine calls.
type BreakerConfig struct {
	Enabled        bool   `yaml:"enabled"`
	MaxFailures    uint32 `yaml:"max_failures"`
	OpenTimeoutSec int    `yaml:"open_timeout_sec"`
}

// CacheConfig holds the reference data cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ClientCacheSec   int      `yaml:"client_cache_sec"` // 0 = no client-side caching
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds query compilation and response settings.
type SearchConfig struct {
	TimeZone           string         `yaml:"time_zone"`
	DefaultLanguage    string         `yaml:"default_language"`
	CacheMaxAgeSec     int            `yaml:"cache_max_age_sec"`
	CacheHitsThreshold int            `yaml:"cache_hits_threshold"`
	Features           FeaturesConfig `yaml:"features"`
}

// FeaturesConfig toggles query features.
type FeaturesConfig struct {
	ReservableResourceFilter bool `yaml:"reservable_resource_filter"`
}

// ReleaseConfig identifies the deployed build.
type ReleaseConfig struct {
	Name      string `yaml:"name"`
	Commit    string `yaml:"commit"`
	BuildTime string `yaml:"build_time"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Elasticsearch.ReadinessTimeout <= 0 {
		c.Elasticsearch.ReadinessTimeout = 30
	}
	if c.Elasticsearch.Breaker.MaxFailures == 0 {
		c.Elasticsearch.Breaker.MaxFailures = 5
	}
	if c.Elasticsearch.Breaker.OpenTimeoutSec <= 0 {
		c.Elasticsearch.Breaker.OpenTimeoutSec = 30
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Search.TimeZone == "" {
		c.Search.TimeZone = "Europe/Helsinki"
	}
	if c.Search.DefaultLanguage == "" {
		c.Search.DefaultLanguage = "fi"
	}
	if c.Search.CacheMaxAgeSec <= 0 {
		c.Search.CacheMaxAgeSec = 3600
	}
	if c.Search.CacheHitsThreshold <= 0 {
		c.Search.CacheHitsThreshold = 1000
	}
	if c.Release.Name == "" {
		c.Release.Name = "unisearch"
	}
	if c.Release.Commit == "" && version.Known() {
		c.Release.Commit = version.Commit
		c.Release.BuildTime = version.Date
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("elasticsearch.addresses is required")
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	if _, err := time.LoadLocation(c.Search.TimeZone); err != nil {
		return fmt.Errorf("search.time_zone: %w", err)
	}
	switch c.Search.DefaultLanguage {
	case "fi", "sv", "en":
		// ok
	default:
		return fmt.Errorf(
			"search.default_language must be \"fi\", \"sv\" or \"en\", got %q",
			c.Search.DefaultLanguage,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
