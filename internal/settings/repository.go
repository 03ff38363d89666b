package settings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/foliolabs/folio/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a settings repository.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "settings"),
	}
}

func scanSettings(s repository.Scanner) (Settings, error) {
	var st Settings
	err := s.Scan(&st.DisplayTheme, &st.FontSizeMultiplier, &st.UpdatedAt)
	return st, err
}

func (r *repo) Get(ctx context.Context) (*Settings, error) {
	q := `SELECT display_theme, font_size_multiplier, updated_at FROM settings WHERE id`

	st, err := repository.QueryOne(ctx, r.db, q, nil, scanSettings)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	return &st, nil
}

func (r *repo) Save(ctx context.Context, cmd SaveCommand) (*Settings, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `UPDATE settings SET display_theme = $1, font_size_multiplier = $2, updated_at = NOW()
		WHERE id
		RETURNING display_theme, font_size_multiplier, updated_at`

	st, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Settings, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.DisplayTheme, cmd.FontSizeMultiplier}, scanSettings)
	})
	if err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	r.logger.Info("settings saved", "theme", st.DisplayTheme, "font_size", st.FontSizeMultiplier)
	return &st, nil
}

func (r *repo) Clear(ctx context.Context) (*Settings, error) {
	q := `UPDATE settings SET display_theme = DEFAULT, font_size_multiplier = DEFAULT, updated_at = NOW()
		WHERE id
		RETURNING display_theme, font_size_multiplier, updated_at`

	st, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Settings, error) {
		return repository.QueryOne(ctx, tx, q, nil, scanSettings)
	})
	if err != nil {
		return nil, fmt.Errorf("clear settings: %w", err)
	}

	r.logger.Info("settings reset to defaults")
	return &st, nil
}
