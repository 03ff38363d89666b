package config_test

import (
	"testing"
	"time"

	"github.com/foliolabs/folio/internal/config"
)

func TestReaderConfig_FinalizeDefaults(t *testing.T) {
	var cfg config.ReaderConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Oversample != 2.0 {
		t.Errorf("Oversample = %v, want 2.0", cfg.Oversample)
	}
	if cfg.HorizontalPadding != 16 {
		t.Errorf("HorizontalPadding = %v, want 16", cfg.HorizontalPadding)
	}
	if got := cfg.ChromeIdleDuration(); got != 3*time.Second {
		t.Errorf("ChromeIdleDuration() = %v, want 3s", got)
	}
	if got := cfg.ChromeFadeDuration(); got != 300*time.Millisecond {
		t.Errorf("ChromeFadeDuration() = %v, want 300ms", got)
	}
	if got := cfg.FetchTimeoutDuration(); got != 0 {
		t.Errorf("FetchTimeoutDuration() = %v, want 0 (unbounded)", got)
	}
	if cfg.EventBuffer != 64 {
		t.Errorf("EventBuffer = %d, want 64", cfg.EventBuffer)
	}
}

func TestReaderConfig_FinalizeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ReaderConfig
	}{
		{"oversample below one", config.ReaderConfig{Oversample: 0.5}},
		{"negative padding", config.ReaderConfig{HorizontalPadding: -1}},
		{"bad idle duration", config.ReaderConfig{ChromeIdle: "soon"}},
		{"bad fetch timeout", config.ReaderConfig{FetchTimeout: "never"}},
		{"negative buffer", config.ReaderConfig{EventBuffer: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(); err == nil {
				t.Error("Finalize() error = nil, want validation failure")
			}
		})
	}
}

func TestReaderConfig_Merge(t *testing.T) {
	base := config.ReaderConfig{}
	if err := base.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	base.Merge(&config.ReaderConfig{ChromeIdle: "10s", EventBuffer: 128})

	if base.ChromeIdle != "10s" {
		t.Errorf("ChromeIdle = %q, want overlay value", base.ChromeIdle)
	}
	if base.EventBuffer != 128 {
		t.Errorf("EventBuffer = %d, want 128", base.EventBuffer)
	}
	if base.Oversample != 2.0 {
		t.Errorf("Oversample = %v, zero overlay must not clobber", base.Oversample)
	}
}

func TestStorageConfig_MaxImportSizeBytes(t *testing.T) {
	cfg := config.StorageConfig{MaxImportSize: "5MB"}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if got := cfg.MaxImportSizeBytes(); got != 5_000_000 {
		t.Errorf("MaxImportSizeBytes() = %d, want 5000000", got)
	}
}

func TestStorageConfig_FinalizeDefaults(t *testing.T) {
	var cfg config.StorageConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.BasePath != ".data/library" {
		t.Errorf("BasePath = %q, want %q", cfg.BasePath, ".data/library")
	}
	if cfg.MaxImportSizeBytes() != 100_000_000 {
		t.Errorf("MaxImportSizeBytes() = %d, want 100000000", cfg.MaxImportSizeBytes())
	}
}
