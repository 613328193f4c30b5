package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/socialmindhq/socialmind/internal/models"
	"github.com/socialmindhq/socialmind/internal/repository"
)

type SettingsService interface {
	GetSettings(ctx context.Context, userID int64) (*models.NotificationSettings, error)
	UpdateSettings(ctx context.Context, userID int64, dailyReminder bool, reminderHour int, timezone string) error
}

type settingsService struct {
	sr repository.SettingsRepository
}

func NewSettingsService(sr repository.SettingsRepository) SettingsService {
	return &settingsService{sr: sr}
}

// GetSettings returns defaults for users who never saved settings.
func (s *settingsService) GetSettings(ctx context.Context, userID int64) (*models.NotificationSettings, error) {
	settings, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting settings")
	}
	if settings == nil {
		return &models.NotificationSettings{
			UserID:        userID,
			DailyReminder: false,
			ReminderHour:  9,
			Timezone:      "UTC",
		}, nil
	}
	return settings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, userID int64, dailyReminder bool, reminderHour int, timezone string) error {
	if reminderHour < 0 || reminderHour > 23 {
		return errors.New("reminder hour must be between 0 and 23")
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return errors.New("unknown timezone")
	}

	return s.sr.Upsert(ctx, &models.NotificationSettings{
		UserID:        userID,
		DailyReminder: dailyReminder,
		ReminderHour:  reminderHour,
		Timezone:      timezone,
	})
}
