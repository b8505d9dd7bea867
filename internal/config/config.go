// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config collects the settings of the local stores and logging.
type Config struct {
	DataDir   string `mapstructure:"DATA_DIR"`
	DBFile    string `mapstructure:"DB_FILE"`
	BlobFile  string `mapstructure:"BLOB_FILE"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// Load reads configuration from FEMILIO_* environment variables with an
// optional .env file, falling back to defaults under the user's home.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetEnvPrefix("FEMILIO")
	v.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("DATA_DIR", filepath.Join(home, ".femilio"))
	v.SetDefault("DB_FILE", "app.db")
	v.SetDefault("BLOB_FILE", "blobs.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	for _, key := range []string{"DATA_DIR", "DB_FILE", "BLOB_FILE", "LOG_LEVEL", "LOG_FORMAT"} {
		_ = v.BindEnv(key)
	}

	// The .env file is optional.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// DBPath is the full path of the relational store file.
func (c *Config) DBPath() string { return filepath.Join(c.DataDir, c.DBFile) }

// BlobPath is the full path of the blob store file.
func (c *Config) BlobPath() string { return filepath.Join(c.DataDir, c.BlobFile) }

// EnsureDataDir creates the data directory if missing.
func (c *Config) EnsureDataDir() error { return os.MkdirAll(c.DataDir, 0o700) }
