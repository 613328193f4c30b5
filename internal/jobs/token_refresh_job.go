package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/socialmindhq/socialmind/internal/models"
	"github.com/socialmindhq/socialmind/internal/repository"
	"github.com/socialmindhq/socialmind/internal/service"
)

// TokenRefreshJob keeps stored provider tokens usable by refreshing the
// ones expiring in the next half hour (or already expired).
type TokenRefreshJob struct {
	sr repository.SocialAccountRepository
	yt service.YoutubeService
	th service.ThreadsService
}

func NewTokenRefreshJob(
	sr repository.SocialAccountRepository,
	yt service.YoutubeService,
	th service.ThreadsService) *TokenRefreshJob {
	return &TokenRefreshJob{
		sr: sr,
		yt: yt,
		th: th,
	}
}

func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := c.sr.ListByTimeInterval(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			switch acc.Platform {
			case models.PlatformYoutube:
				if err := c.yt.RefreshToken(ctx, acc.UserID, acc.AccessToken, acc.RefreshToken); err != nil {
					slog.Info("unable to refresh YouTube token")
				}

			case models.PlatformThreads:
				if err := c.th.RefreshToken(ctx, acc.UserID, acc.AccessToken); err != nil {
					slog.Info("unable to refresh Threads token")
				}
			}
		}(acc)
	}

	wg.Wait()
}
