package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the stockcompass services.
type Config struct {
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	OpenAI  OpenAI  `yaml:"openai"`
	News    News    `yaml:"news"`
	Logging Logging `yaml:"logging"`
}

// Server holds network listener configuration.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// OpenAI holds the completion credential and endpoints. The API key never
// leaves the server process.
type OpenAI struct {
	APIKey        string `yaml:"api_key"`
	Model         string `yaml:"model"`
	FileSearchURL string `yaml:"file_search_url"`
}

// News configures the news sources. Alpaca is used only when both
// credentials are present.
type News struct {
	AlpacaAPIKey    string `yaml:"alpaca_api_key"`
	AlpacaAPISecret string `yaml:"alpaca_api_secret"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAI.Model = v
	}
	if v := os.Getenv("FILE_SEARCH_URL"); v != "" {
		cfg.OpenAI.FileSearchURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Canonical Alpaca env vars used by the SDK.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.News.AlpacaAPIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.News.AlpacaAPISecret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4-turbo-preview"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
