package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/socialmindhq/socialmind/internal/mailer"
	"github.com/socialmindhq/socialmind/internal/repository"
)

// ReminderJob polls every minute and mails users whose configured reminder
// hour has arrived in their timezone and who have posts scheduled today.
// Best-effort and in-memory: a restart may re-send or skip at most one day.
type ReminderJob struct {
	sr repository.SettingsRepository
	pr repository.PostRepository
	ur repository.UserRepository
	m  mailer.Mailer

	mu       sync.Mutex
	lastSent map[int64]string
	now      func() time.Time
}

func NewReminderJob(
	sr repository.SettingsRepository,
	pr repository.PostRepository,
	ur repository.UserRepository,
	m mailer.Mailer) *ReminderJob {
	return &ReminderJob{
		sr:       sr,
		pr:       pr,
		ur:       ur,
		m:        m,
		lastSent: make(map[int64]string),
		now:      time.Now,
	}
}

func (j *ReminderJob) Run() {
	ctx := context.Background()

	settings, err := j.sr.ListEnabled(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, s := range settings {
		loc, err := time.LoadLocation(s.Timezone)
		if err != nil {
			loc = time.UTC
		}

		localNow := j.now().In(loc)
		if localNow.Hour() != s.ReminderHour {
			continue
		}

		today := localNow.Format("2006-01-02")
		if !j.markSent(s.UserID, today) {
			continue
		}

		dayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
		posts, err := j.pr.ListScheduledBetween(ctx, s.UserID, dayStart, dayStart.Add(24*time.Hour))
		if err != nil {
			slog.Info(err.Error())
			continue
		}
		if len(posts) == 0 {
			continue
		}

		user, exists, err := j.ur.GetByID(ctx, s.UserID)
		if err != nil || !exists {
			continue
		}

		if err := j.m.SendDailyReminder(ctx, user.Email, len(posts)); err != nil {
			slog.Info(fmt.Sprintf("daily reminder mail failed for user %d: %v", s.UserID, err))
		}
	}
}

// markSent records the send for today; returns false if already recorded.
func (j *ReminderJob) markSent(userID int64, day string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.lastSent[userID] == day {
		return false
	}
	j.lastSent[userID] = day
	return true
}
