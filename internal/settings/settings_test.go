package settings_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/foliolabs/folio/internal/settings"
)

func TestTheme_Validate(t *testing.T) {
	for _, theme := range []settings.Theme{settings.ThemeLight, settings.ThemeDark, settings.ThemeAuto} {
		if err := theme.Validate(); err != nil {
			t.Errorf("Validate(%q) error = %v", theme, err)
		}
	}

	if err := settings.Theme("sepia").Validate(); !errors.Is(err, settings.ErrInvalidSetting) {
		t.Errorf("Validate(sepia) error = %v, want ErrInvalidSetting", err)
	}
}

func TestSaveCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     settings.SaveCommand
		wantErr bool
	}{
		{"valid", settings.SaveCommand{DisplayTheme: settings.ThemeDark, FontSizeMultiplier: 1.5}, false},
		{"minimum multiplier", settings.SaveCommand{DisplayTheme: settings.ThemeAuto, FontSizeMultiplier: 0.5}, false},
		{"maximum multiplier", settings.SaveCommand{DisplayTheme: settings.ThemeAuto, FontSizeMultiplier: 3.0}, false},
		{"multiplier too small", settings.SaveCommand{DisplayTheme: settings.ThemeAuto, FontSizeMultiplier: 0.4}, true},
		{"multiplier too large", settings.SaveCommand{DisplayTheme: settings.ThemeAuto, FontSizeMultiplier: 3.1}, true},
		{"bad theme", settings.SaveCommand{DisplayTheme: "sepia", FontSizeMultiplier: 1.0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr && !errors.Is(err, settings.ErrInvalidSetting) {
				t.Errorf("Validate() error = %v, want ErrInvalidSetting", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	if got := settings.MapHTTPStatus(settings.ErrInvalidSetting); got != http.StatusBadRequest {
		t.Errorf("MapHTTPStatus(ErrInvalidSetting) = %d, want 400", got)
	}
	if got := settings.MapHTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("MapHTTPStatus(unknown) = %d, want 500", got)
	}
}
