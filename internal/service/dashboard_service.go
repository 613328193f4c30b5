package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/socialmindhq/socialmind/internal/repository"
	"github.com/socialmindhq/socialmind/internal/transfer"
)

type DashboardService interface {
	Analytics(ctx context.Context, userID int64) (*transfer.Analytics, error)
	Insights(ctx context.Context, userID int64) ([]*transfer.PlatformInsight, error)
}

type dashboardService struct {
	pr  repository.PostRepository
	sa  repository.SocialAccountRepository
	now func() time.Time
}

func NewDashboardService(pr repository.PostRepository, sa repository.SocialAccountRepository) DashboardService {
	return &dashboardService{
		pr:  pr,
		sa:  sa,
		now: time.Now,
	}
}

// Analytics computes status counts from stored rows and fills the rest with
// clearly-labelled estimates. Estimates are seeded per (user, day): real
// platform metrics aren't pulled yet, but at least repeated dashboard loads
// within a day agree with each other.
func (s *dashboardService) Analytics(ctx context.Context, userID int64) (*transfer.Analytics, error) {
	counts, err := s.pr.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error computing post counts")
	}

	accounts, err := s.sa.ListInfoByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting social accounts")
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	rng := s.estimateRng(userID)
	estimated := transfer.EstimatedMetrics{
		Reach:          total*120 + rng.Intn(500),
		Followers:      len(accounts)*250 + rng.Intn(300),
		Comments:       total*3 + rng.Intn(40),
		EngagementRate: 1.5 + rng.Float64()*3.5,
		MonthDeltaPct:  rng.Float64() * 12,
	}

	return &transfer.Analytics{
		Computed: transfer.ComputedMetrics{
			TotalPosts:     total,
			PostsByStatus:  counts,
			LinkedAccounts: len(accounts),
		},
		Estimated: estimated,
	}, nil
}

func (s *dashboardService) Insights(ctx context.Context, userID int64) ([]*transfer.PlatformInsight, error) {
	counts, err := s.pr.CountByPlatform(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error computing platform counts")
	}

	// Fixed iteration order keeps the shared rng deterministic per (user, day).
	platforms := make([]string, 0, len(counts))
	for platform := range counts {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	rng := s.estimateRng(userID)

	var insights []*transfer.PlatformInsight
	for _, platform := range platforms {
		count := counts[platform]
		engagement := make([]int, 7)
		for i := range engagement {
			engagement[i] = count*10 + rng.Intn(100)
		}
		insights = append(insights, &transfer.PlatformInsight{
			Platform:   platform,
			PostCount:  count,
			Engagement: engagement,
		})
	}

	return insights, nil
}

func (s *dashboardService) estimateRng(userID int64) *rand.Rand {
	day := s.now().Format("2006-01-02")
	seed := userID
	for _, c := range day {
		seed = seed*31 + int64(c)
	}
	return rand.New(rand.NewSource(seed))
}
