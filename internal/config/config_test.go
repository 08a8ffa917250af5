package config

import (
	"os"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "stockcompass-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}
	return tmpFile.Name()
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATA_DIR", "SQLITE_PATH", "OPENAI_API_KEY", "OPENAI_MODEL",
		"FILE_SEARCH_URL", "LOG_LEVEL", "APCA_API_KEY_ID", "APCA_API_SECRET_KEY",
	} {
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `
server:
  host: "0.0.0.0"
  port: 8085
storage:
  data_dir: "/tmp/stockcompass/data"
  sqlite_path: "/tmp/stockcompass/stockcompass.db"
openai:
  api_key: "yaml-key"
  model: "gpt-4-turbo-preview"
  file_search_url: "http://localhost:8000/api/file_search"
news:
  alpaca_api_key: "alpaca-key"
  alpaca_api_secret: "alpaca-secret"
logging:
  level: "info"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8085 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8085)
	}
	if cfg.Storage.DataDir != "/tmp/stockcompass/data" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Storage.SQLitePath != "/tmp/stockcompass/stockcompass.db" {
		t.Errorf("Storage.SQLitePath = %q", cfg.Storage.SQLitePath)
	}
	if cfg.OpenAI.APIKey != "yaml-key" {
		t.Errorf("OpenAI.APIKey = %q, want %q", cfg.OpenAI.APIKey, "yaml-key")
	}
	if cfg.OpenAI.FileSearchURL != "http://localhost:8000/api/file_search" {
		t.Errorf("OpenAI.FileSearchURL = %q", cfg.OpenAI.FileSearchURL)
	}
	if cfg.News.AlpacaAPIKey != "alpaca-key" {
		t.Errorf("News.AlpacaAPIKey = %q, want %q", cfg.News.AlpacaAPIKey, "alpaca-key")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `
storage:
  data_dir: "/data"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.OpenAI.Model != "gpt-4-turbo-preview" {
		t.Errorf("default OpenAI.Model = %q", cfg.OpenAI.Model)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `
openai:
  api_key: "yaml-key"
  file_search_url: "http://yaml-host/api/file_search"
storage:
  data_dir: "/original/data"
`)

	os.Setenv("OPENAI_API_KEY", "env-key")
	os.Setenv("DATA_DIR", "/env/data")
	defer os.Unsetenv("OPENAI_API_KEY")
	defer os.Unsetenv("DATA_DIR")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.OpenAI.APIKey != "env-key" {
		t.Errorf("OpenAI.APIKey = %q, want %q (env override)", cfg.OpenAI.APIKey, "env-key")
	}
	// file_search_url has no env override set, so YAML wins.
	if cfg.OpenAI.FileSearchURL != "http://yaml-host/api/file_search" {
		t.Errorf("OpenAI.FileSearchURL = %q, want YAML value", cfg.OpenAI.FileSearchURL)
	}
	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("Storage.DataDir = %q, want %q (env override)", cfg.Storage.DataDir, "/env/data")
	}
}
