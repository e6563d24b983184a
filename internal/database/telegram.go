package database

import (
	"database/sql"
	"fmt"
	"time"

	"landsale/server/internal/models"
)

// GetTelegramConfig returns the stored Telegram configuration, or nil when
// none has been saved yet.
func (d *Database) GetTelegramConfig() (*models.TelegramConfig, error) {
	var config models.TelegramConfig
	var createdAt, updatedAt string

	err := d.db.QueryRow(`
		SELECT id, is_enabled, bot_token, chat_id,
		       COALESCE(created_at, ''), COALESCE(updated_at, '')
		FROM telegram_config
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&config.ID, &config.IsEnabled, &config.BotToken, &config.ChatID, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query telegram config: %w", err)
	}

	if createdAt != "" {
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			config.CreatedAt = t
		}
	}
	if updatedAt != "" {
		if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			config.UpdatedAt = t
		}
	}

	return &config, nil
}

// UpdateTelegramConfig replaces the stored Telegram configuration.
func (d *Database) UpdateTelegramConfig(request *models.TelegramConfigRequest) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// A single configuration row is kept
	if _, err := tx.Exec("DELETE FROM telegram_config"); err != nil {
		return fmt.Errorf("failed to clear telegram config: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`
		INSERT INTO telegram_config (is_enabled, bot_token, chat_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, request.IsEnabled, request.BotToken, request.ChatID, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert telegram config: %w", err)
	}

	return tx.Commit()
}
