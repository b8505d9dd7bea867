package config

import (
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBFile != "app.db" || cfg.BlobFile != "blobs.db" {
		t.Fatalf("store file defaults = %q, %q", cfg.DBFile, cfg.BlobFile)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Fatalf("logging defaults = %q, %q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.DBPath() != filepath.Join(cfg.DataDir, "app.db") {
		t.Fatalf("DBPath = %q", cfg.DBPath())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FEMILIO_DATA_DIR", "/tmp/records")
	t.Setenv("FEMILIO_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/tmp/records" {
		t.Fatalf("DataDir = %q", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.BlobPath() != "/tmp/records/blobs.db" {
		t.Fatalf("BlobPath = %q", cfg.BlobPath())
	}
}
