package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mythic-botz/Rename/internal/settings"
)

// Settings returns the values a user has stored. Missing keys stay empty.
func (s *Store) Settings(ctx context.Context, userID int64) (settings.UserSettings, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM user_settings WHERE user_id = ?", userID)
	if err != nil {
		return settings.UserSettings{}, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	out := settings.UserSettings{Tags: make(map[string]string)}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings.UserSettings{}, fmt.Errorf("scan setting: %w", err)
		}
		switch key {
		case settings.KeyTemplate:
			out.Template = value
		case settings.KeyCaption:
			out.Caption = value
		case settings.KeyThumbnail:
			out.Thumbnail = value
		default:
			out.Tags[key] = value
		}
	}
	if err := rows.Err(); err != nil {
		return settings.UserSettings{}, fmt.Errorf("iterate settings: %w", err)
	}
	return out, nil
}

// SetSetting stores one value. An empty value clears the key.
func (s *Store) SetSetting(ctx context.Context, userID int64, key, value string) error {
	if err := settings.CheckKey(key); err != nil {
		return err
	}
	if strings.TrimSpace(value) == "" {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM user_settings WHERE user_id = ? AND key = ?", userID, key); err != nil {
			return fmt.Errorf("clear setting %s: %w", key, err)
		}
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		userID, key, value, s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

var (
	_ settings.Source = (*Store)(nil)
	_ settings.Writer = (*Store)(nil)
)
