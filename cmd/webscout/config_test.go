package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigParsesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "provider: venice\nmodel: llama-3.3-70b\napi_key: sk-test\ntimeout: 45s\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Provider != "venice" || cfg.Model != "llama-3.3-70b" || cfg.APIKey != "sk-test" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	d, err := cfg.timeout()
	if err != nil {
		t.Fatalf("timeout: %v", err)
	}
	if d != 45*time.Second {
		t.Fatalf("timeout = %v, want 45s", d)
	}
}

func TestLoadConfigMissingDefaultIsEmpty(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg != (fileConfig{}) {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfigMissingExplicitFails(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), true)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
