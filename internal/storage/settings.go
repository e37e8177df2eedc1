package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"finanzas/internal/core"
)

// GetSettings returns the whole key/value settings map.
func (s *Store) GetSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return settings, nil
}

// SaveSetting upserts a setting, last write wins.
func (s *Store) SaveSetting(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return core.NewError(core.KindValidation, core.ErrEmptyName)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("save setting: %w", err)
	}

	slog.InfoContext(ctx, "Setting saved", "key", key)
	return nil
}
