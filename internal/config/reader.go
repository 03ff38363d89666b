package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// EnvReaderOversample overrides the bitmap oversampling factor.
	EnvReaderOversample = "READER_OVERSAMPLE"

	// EnvReaderHorizontalPadding overrides the viewport horizontal padding.
	EnvReaderHorizontalPadding = "READER_HORIZONTAL_PADDING"

	// EnvReaderChromeIdle overrides the chrome auto-hide idle period.
	EnvReaderChromeIdle = "READER_CHROME_IDLE"

	// EnvReaderChromeFade overrides the chrome fade duration.
	EnvReaderChromeFade = "READER_CHROME_FADE"

	// EnvReaderFetchTimeout overrides the byte source fetch timeout.
	EnvReaderFetchTimeout = "READER_FETCH_TIMEOUT"

	// EnvReaderEventBuffer overrides the session event buffer size.
	EnvReaderEventBuffer = "READER_EVENT_BUFFER"
)

// ReaderConfig contains render pipeline and reading session configuration.
type ReaderConfig struct {
	// Oversample is the physical-to-logical pixel ratio for rasterized
	// pages. Pages render at Oversample times their display size.
	Oversample float64 `toml:"oversample"`

	// HorizontalPadding is the fixed padding on each side of the page,
	// in logical pixels. Pages fit the viewport width minus twice this.
	HorizontalPadding float64 `toml:"horizontal_padding"`

	ChromeIdle   string `toml:"chrome_idle"`
	ChromeFade   string `toml:"chrome_fade"`
	FetchTimeout string `toml:"fetch_timeout"`
	EventBuffer  int    `toml:"event_buffer"`
}

// ChromeIdleDuration parses and returns the chrome auto-hide idle period.
func (c *ReaderConfig) ChromeIdleDuration() time.Duration {
	d, _ := time.ParseDuration(c.ChromeIdle)
	return d
}

// ChromeFadeDuration parses and returns the chrome fade duration.
func (c *ReaderConfig) ChromeFadeDuration() time.Duration {
	d, _ := time.ParseDuration(c.ChromeFade)
	return d
}

// FetchTimeoutDuration parses and returns the byte source fetch timeout.
// Zero means unbounded.
func (c *ReaderConfig) FetchTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.FetchTimeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the reader configuration.
func (c *ReaderConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ReaderConfig) Merge(overlay *ReaderConfig) {
	if overlay.Oversample != 0 {
		c.Oversample = overlay.Oversample
	}
	if overlay.HorizontalPadding != 0 {
		c.HorizontalPadding = overlay.HorizontalPadding
	}
	if overlay.ChromeIdle != "" {
		c.ChromeIdle = overlay.ChromeIdle
	}
	if overlay.ChromeFade != "" {
		c.ChromeFade = overlay.ChromeFade
	}
	if overlay.FetchTimeout != "" {
		c.FetchTimeout = overlay.FetchTimeout
	}
	if overlay.EventBuffer != 0 {
		c.EventBuffer = overlay.EventBuffer
	}
}

func (c *ReaderConfig) loadDefaults() {
	if c.Oversample == 0 {
		c.Oversample = 2.0
	}
	if c.HorizontalPadding == 0 {
		c.HorizontalPadding = 16
	}
	if c.ChromeIdle == "" {
		c.ChromeIdle = "3s"
	}
	if c.ChromeFade == "" {
		c.ChromeFade = "300ms"
	}
	if c.FetchTimeout == "" {
		c.FetchTimeout = "0s"
	}
	if c.EventBuffer == 0 {
		c.EventBuffer = 64
	}
}

func (c *ReaderConfig) loadEnv() {
	if v := os.Getenv(EnvReaderOversample); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Oversample = f
		}
	}
	if v := os.Getenv(EnvReaderHorizontalPadding); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.HorizontalPadding = f
		}
	}
	if v := os.Getenv(EnvReaderChromeIdle); v != "" {
		c.ChromeIdle = v
	}
	if v := os.Getenv(EnvReaderChromeFade); v != "" {
		c.ChromeFade = v
	}
	if v := os.Getenv(EnvReaderFetchTimeout); v != "" {
		c.FetchTimeout = v
	}
	if v := os.Getenv(EnvReaderEventBuffer); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.EventBuffer = n
		}
	}
}

func (c *ReaderConfig) validate() error {
	if c.Oversample < 1 {
		return fmt.Errorf("oversample must be at least 1")
	}
	if c.HorizontalPadding < 0 {
		return fmt.Errorf("horizontal_padding cannot be negative")
	}
	if c.EventBuffer < 1 {
		return fmt.Errorf("event_buffer must be positive")
	}
	for name, value := range map[string]string{
		"chrome_idle":   c.ChromeIdle,
		"chrome_fade":   c.ChromeFade,
		"fetch_timeout": c.FetchTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}
