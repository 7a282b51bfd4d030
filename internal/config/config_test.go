package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{DSN: "postgres://localhost:5432/legisdex"},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small"},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database.DSN = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database dsn")
	}
}

func TestValidate_CacheEnabledWithoutAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}
}

func TestValidate_MissingEmbeddingModel(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Model = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding model")
	}
}

func TestValidate_PageSizeBounds(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	cfg.Search.DefaultPageSize = 500

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when default page size exceeds the max")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.StreamTimeout != 180 {
		t.Errorf("expected StreamTimeout=180, got %d", cfg.HTTP.StreamTimeout)
	}
	if cfg.Search.MaxResults != 1000 {
		t.Errorf("expected MaxResults=1000, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.DefaultPageSize != 20 || cfg.Search.MaxPageSize != 100 {
		t.Errorf("expected page sizes 20/100, got %d/%d",
			cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	}
	if cfg.Cache.TTLHours != 24 {
		t.Errorf("expected cache TTL 24h, got %d", cfg.Cache.TTLHours)
	}
	if cfg.Links.SPLegisBase == "" || cfg.Links.PDFBase == "" {
		t.Error("expected portal link defaults")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LEGISDEX_TEST_KEY", "secret")

	out := string(expandEnvVars([]byte("api_key: ${LEGISDEX_TEST_KEY}\nmodel: ${LEGISDEX_TEST_MODEL:-minilm}")))
	want := "api_key: secret\nmodel: minilm"
	if out != want {
		t.Errorf("expanded = %q, want %q", out, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
http:
  port: 9090
database:
  dsn: postgres://db:5432/legisdex
embedding:
  model: text-embedding-3-small
search:
  thematic_terms: [saude, moradia]
`)
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), content, 0o600); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.HTTP.Port)
	}
	if len(cfg.Search.ThematicTerms) != 2 {
		t.Errorf("thematic terms = %v", cfg.Search.ThematicTerms)
	}
	if cfg.Search.MaxResults != 1000 {
		t.Errorf("defaults not applied: max results = %d", cfg.Search.MaxResults)
	}
}
