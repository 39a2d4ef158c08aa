// Package daemon manages the FitProof daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all daemon configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Data    DataConfig    `toml:"data"`
	Engine  EngineConfig  `toml:"engine"`
	Jobs    JobsConfig    `toml:"jobs"`
	Logging LoggingConfig `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host" envconfig:"FITPROOF_API_HOST"`
	Port        int      `toml:"port" envconfig:"FITPROOF_API_PORT"`
	CORSOrigins []string `toml:"cors_origins" envconfig:"FITPROOF_CORS_ORIGINS"`
}

// DataConfig controls persistent storage.
type DataConfig struct {
	Dir string `toml:"dir" envconfig:"FITPROOF_DATA_DIR"`
}

// EngineConfig tunes the streak computation.
type EngineConfig struct {
	// WindowDays bounds the backward streak scan. 0 keeps the engine
	// default of 90 days.
	WindowDays int `toml:"window_days" envconfig:"FITPROOF_WINDOW_DAYS"`
}

// JobsConfig controls the background schedule.
type JobsConfig struct {
	Timezone      string `toml:"timezone" envconfig:"FITPROOF_JOBS_TZ"`
	RecomputeCron string `toml:"recompute_cron" envconfig:"FITPROOF_RECOMPUTE_CRON"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level" envconfig:"FITPROOF_LOG_LEVEL"`
	File  string `toml:"file" envconfig:"FITPROOF_LOG_FILE"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := fitproofHome()
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        8480,
			CORSOrigins: []string{"*"},
		},
		Data: DataConfig{
			Dir: filepath.Join(homeDir, "data"),
		},
		Engine: EngineConfig{
			WindowDays: 0,
		},
		Jobs: JobsConfig{
			Timezone:      "UTC",
			RecomputeCron: "", // scheduler default: nightly
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "", // stderr
		},
	}
}

// LoadConfig reads config from $FITPROOF_HOME/config.toml, falling back to
// defaults. FITPROOF_* environment variables override the file.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(fitproofHome(), "config.toml")

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("read env overrides: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to $FITPROOF_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(fitproofHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// fitproofHome returns the FitProof data directory.
func fitproofHome() string {
	if env := os.Getenv("FITPROOF_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".fitproof")
}

// Home is exported for use by other packages.
func Home() string {
	return fitproofHome()
}
