package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/socialmindhq/socialmind/internal/models"
)

type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.NotificationSettings, error)
	Upsert(ctx context.Context, s *models.NotificationSettings) error
	ListEnabled(ctx context.Context) ([]*models.NotificationSettings, error)
}

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetByUserID(ctx context.Context, userID int64) (*models.NotificationSettings, error) {
	query := `SELECT id, user_id, daily_reminder, reminder_hour, timezone, created_at, updated_at FROM notification_settings WHERE user_id = $1`
	row := r.db.QueryRowContext(ctx, query, userID)

	var s models.NotificationSettings
	err := row.Scan(&s.ID, &s.UserID, &s.DailyReminder, &s.ReminderHour, &s.Timezone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &s, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, s *models.NotificationSettings) error {
	query := `
		INSERT INTO notification_settings (user_id, daily_reminder, reminder_hour, timezone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			daily_reminder = EXCLUDED.daily_reminder,
			reminder_hour = EXCLUDED.reminder_hour,
			timezone = EXCLUDED.timezone,
			updated_at = $5
	`
	_, err := r.db.ExecContext(ctx, query, s.UserID, s.DailyReminder, s.ReminderHour, s.Timezone, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *settingsRepository) ListEnabled(ctx context.Context) ([]*models.NotificationSettings, error) {
	query := `SELECT id, user_id, daily_reminder, reminder_hour, timezone, created_at, updated_at FROM notification_settings WHERE daily_reminder = TRUE`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var settings []*models.NotificationSettings
	for rows.Next() {
		var s models.NotificationSettings
		err := rows.Scan(&s.ID, &s.UserID, &s.DailyReminder, &s.ReminderHour, &s.Timezone, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		settings = append(settings, &s)
	}
	return settings, rows.Err()
}
