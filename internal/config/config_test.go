package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:          HTTPConfig{Port: 8080},
		Elasticsearch: ElasticsearchConfig{Addresses: []string{"http://localhost:9200"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingElasticsearchAddresses(t *testing.T) {
	cfg := validConfig()
	cfg.Elasticsearch.Addresses = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing elasticsearch addresses")
	}
}

func TestValidate_CacheAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}

	cfg.Cache.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_TimeZone(t *testing.T) {
	cfg := validConfig()
	cfg.Search.TimeZone = "Mars/Olympus_Mons"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown time zone")
	}
}

func TestValidate_DefaultLanguage(t *testing.T) {
	for _, lang := range []string{"fi", "sv", "en"} {
		t.Run(lang, func(t *testing.T) {
			cfg := validConfig()
			cfg.Search.DefaultLanguage = lang
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for %q: %v", lang, err)
			}
		})
	}

	cfg := validConfig()
	cfg.Search.DefaultLanguage = "de"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported default language")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Elasticsearch.ReadinessTimeout != 30 {
		t.Errorf("expected ReadinessTimeout=30, got %d", cfg.Elasticsearch.ReadinessTimeout)
	}
	if cfg.Elasticsearch.Breaker.MaxFailures != 5 {
		t.Errorf("expected MaxFailures=5, got %d", cfg.Elasticsearch.Breaker.MaxFailures)
	}
	if cfg.Elasticsearch.Breaker.OpenTimeoutSec != 30 {
		t.Errorf("expected OpenTimeoutSec=30, got %d", cfg.Elasticsearch.Breaker.OpenTimeoutSec)
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("expected TTLSec=3600, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Search.TimeZone != "Europe/Helsinki" {
		t.Errorf("expected TimeZone=Europe/Helsinki, got %q", cfg.Search.TimeZone)
	}
	if cfg.Search.DefaultLanguage != "fi" {
		t.Errorf("expected DefaultLanguage=fi, got %q", cfg.Search.DefaultLanguage)
	}
	if cfg.Search.CacheMaxAgeSec != 3600 {
		t.Errorf("expected CacheMaxAgeSec=3600, got %d", cfg.Search.CacheMaxAgeSec)
	}
	if cfg.Search.CacheHitsThreshold != 1000 {
		t.Errorf("expected CacheHitsThreshold=1000, got %d", cfg.Search.CacheHitsThreshold)
	}
	if cfg.Search.Features.ReservableResourceFilter {
		t.Error("reservable resource filter must default to off")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:          HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Elasticsearch: ElasticsearchConfig{Breaker: BreakerConfig{MaxFailures: 2, OpenTimeoutSec: 5}},
		Search:        SearchConfig{TimeZone: "UTC", DefaultLanguage: "sv", CacheHitsThreshold: 50},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Elasticsearch.Breaker.MaxFailures != 2 {
		t.Errorf("expected MaxFailures=2, got %d", cfg.Elasticsearch.Breaker.MaxFailures)
	}
	if cfg.Search.TimeZone != "UTC" {
		t.Errorf("expected TimeZone=UTC, got %q", cfg.Search.TimeZone)
	}
	if cfg.Search.DefaultLanguage != "sv" {
		t.Errorf("expected DefaultLanguage=sv, got %q", cfg.Search.DefaultLanguage)
	}
	if cfg.Search.CacheHitsThreshold != 50 {
		t.Errorf("expected CacheHitsThreshold=50, got %d", cfg.Search.CacheHitsThreshold)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("UNISEARCH_TEST_ES", "http://es:9200")

	got := string(expandEnvVars([]byte("a: ${UNISEARCH_TEST_ES}\nb: ${UNISEARCH_TEST_MISSING:-fallback}\nc: ${UNISEARCH_TEST_MISSING}")))
	want := "a: http://es:9200\nb: fallback\nc: "
	if got != want {
		t.Errorf("expandEnvVars = %q, want %q", got, want)
	}
}

func TestLoad_FromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 9090
elasticsearch:
  addresses: ["${UNISEARCH_TEST_ES_URL:-http://localhost:9200}"]
  breaker:
    enabled: true
search:
  features:
    reservable_resource_filter: true
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if len(cfg.Elasticsearch.Addresses) != 1 || cfg.Elasticsearch.Addresses[0] != "http://localhost:9200" {
		t.Errorf("unexpected addresses: %v", cfg.Elasticsearch.Addresses)
	}
	if !cfg.Elasticsearch.Breaker.Enabled {
		t.Error("expected breaker enabled")
	}
	if !cfg.Search.Features.ReservableResourceFilter {
		t.Error("expected reservable resource filter enabled")
	}
	if cfg.Search.CacheHitsThreshold != 1000 {
		t.Errorf("expected default threshold, got %d", cfg.Search.CacheHitsThreshold)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("expected local, got %q", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("expected prod, got %q", got)
	}
}
