package models

import "time"

// NotificationSettings drives the daily reminder job. ReminderHour is the
// wall-clock hour (0-23) in the user's timezone.
type NotificationSettings struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	DailyReminder bool      `db:"daily_reminder" json:"daily_reminder"`
	ReminderHour  int       `db:"reminder_hour" json:"reminder_hour"`
	Timezone      string    `db:"timezone" json:"timezone"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
