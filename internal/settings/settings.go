// Package settings stores reader display preferences as a single
// database-backed record.
package settings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Theme selects the reader display theme.
type Theme string

// Display theme constants.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Validate checks if the theme is a supported display theme.
func (t Theme) Validate() error {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return nil
	default:
		return fmt.Errorf("%w: theme must be light, dark, or auto", ErrInvalidSetting)
	}
}

// Settings holds the reader display preferences.
type Settings struct {
	DisplayTheme       Theme     `json:"display_theme"`
	FontSizeMultiplier float64   `json:"font_size_multiplier"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SaveCommand contains the fields that can be modified.
type SaveCommand struct {
	DisplayTheme       Theme   `json:"display_theme"`
	FontSizeMultiplier float64 `json:"font_size_multiplier"`
}

// Validate checks the command against acceptable ranges.
func (c *SaveCommand) Validate() error {
	if err := c.DisplayTheme.Validate(); err != nil {
		return err
	}
	if c.FontSizeMultiplier < 0.5 || c.FontSizeMultiplier > 3.0 {
		return fmt.Errorf("%w: font_size_multiplier must be between 0.5 and 3.0", ErrInvalidSetting)
	}
	return nil
}

// ErrInvalidSetting indicates a settings value outside the accepted range.
var ErrInvalidSetting = errors.New("invalid setting")

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidSetting) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// System defines the settings operations.
type System interface {
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, cmd SaveCommand) (*Settings, error)

	// Clear resets all settings to their defaults.
	Clear(ctx context.Context) (*Settings, error)
}
