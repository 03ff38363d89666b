package config

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

const (
	// EnvStorageBasePath overrides the storage base path.
	EnvStorageBasePath = "STORAGE_BASE_PATH"

	// EnvStorageMaxImportSize overrides the maximum document import size.
	EnvStorageMaxImportSize = "STORAGE_MAX_IMPORT_SIZE"
)

// StorageConfig contains blob storage configuration.
type StorageConfig struct {
	// BasePath is the root directory for filesystem storage.
	// Default: ".data/library"
	BasePath         string `toml:"base_path"`
	MaxImportSize    string `toml:"max_import_size"`
	maxImportSizeVal int64
}

// MaxImportSizeBytes returns the parsed maximum import size in bytes.
func (c *StorageConfig) MaxImportSizeBytes() int64 {
	return c.maxImportSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *StorageConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *StorageConfig) Merge(overlay *StorageConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxImportSize != "" {
		if size, err := units.FromHumanSize(overlay.MaxImportSize); err == nil {
			c.MaxImportSize = overlay.MaxImportSize
			c.maxImportSizeVal = size
		}
	}
}

func (c *StorageConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data/library"
	}
	if c.MaxImportSize == "" {
		c.MaxImportSize = "100MB"
	}
}

func (c *StorageConfig) loadEnv() {
	if v := os.Getenv(EnvStorageBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvStorageMaxImportSize); v != "" {
		c.MaxImportSize = v
	}
}

func (c *StorageConfig) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.FromHumanSize(c.MaxImportSize)
	if err != nil {
		return fmt.Errorf("invalid max_import_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_import_size must be positive")
	}
	c.maxImportSizeVal = size

	return nil
}
