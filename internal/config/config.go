package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DataDir     string `toml:"data_dir"`
	Output      string `toml:"output"`
	StatePath   string `toml:"state_path"`
	Port        int    `toml:"port"`
	LogLevel    string `toml:"log_level"`
	DatabaseURL string `toml:"database_url"`
	NatsURL     string `toml:"nats_url"`
	NatsToken   string `toml:"nats_token"`
	APIToken    string `toml:"api_token"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:   "./data/unprocessed",
		Output:    "./data/processed/prompts.jsonl",
		StatePath: "~/.convoset/state.json",
		Port:      8760,
		LogLevel:  "info",
	}
}

// Load builds the configuration from defaults, the optional TOML file named
// by CONVOSET_CONFIG, and environment overrides, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONVOSET_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.DataDir = envStr("CONVOSET_DATA_DIR", cfg.DataDir)
	cfg.Output = envStr("CONVOSET_OUTPUT", cfg.Output)
	cfg.StatePath = envStr("CONVOSET_STATE", cfg.StatePath)
	cfg.Port = envInt("CONVOSET_PORT", cfg.Port)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
	cfg.DatabaseURL = envStr("DATABASE_URL", cfg.DatabaseURL)
	cfg.NatsURL = envStr("NATS_URL", cfg.NatsURL)
	cfg.NatsToken = envStr("NATS_TOKEN", cfg.NatsToken)
	cfg.APIToken = envStr("CONVOSET_API_TOKEN", cfg.APIToken)

	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
