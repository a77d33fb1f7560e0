package usecase

import (
	"context"
	"time"

	"github.com/dsagrinders/tracker/internal/domain"
)

// StatsFetcher abstracts the LeetCode profile source.
type StatsFetcher interface {
	FetchStats(ctx context.Context, username string) (*domain.LeetCodeStats, error)
}

// SyncStatsUsecase fetches a user's cumulative profile counters and
// reconciles them into today's snapshot. Running it any number of times on
// the same calendar day is idempotent for the scoring inputs: todayPoints is
// always derived from the last snapshot strictly before today, and the
// previousTotal anchor recorded on the first sync of the day is preserved by
// later re-syncs.
type SyncStatsUsecase struct {
	fetcher StatsFetcher
	stats   domain.DailyStatRepository

	// Now is the clock used to derive the snapshot date (UTC). Tests
	// override it.
	Now func() time.Time
}

func NewSyncStatsUsecase(fetcher StatsFetcher, stats domain.DailyStatRepository) *SyncStatsUsecase {
	return &SyncStatsUsecase{
		fetcher: fetcher,
		stats:   stats,
		Now:     time.Now,
	}
}

func (uc *SyncStatsUsecase) Execute(ctx context.Context, userID int64, handle string) (*domain.DailyStat, error) {
	fetched, err := uc.fetcher.FetchStats(ctx, handle)
	if err != nil {
		return nil, err
	}

	today := uc.Now().UTC().Format("2006-01-02")

	existing, err := uc.stats.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	previous, err := uc.stats.GetLatestBefore(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	previousTotal := fetched.Total
	switch {
	case existing != nil:
		// Same-day re-sync: keep the anchor recorded by the first sync.
		previousTotal = existing.PreviousTotal
	case previous != nil:
		previousTotal = previous.Total
	}

	stat := &domain.DailyStat{
		UserID:         userID,
		Date:           today,
		Easy:           fetched.Easy,
		Medium:         fetched.Medium,
		Hard:           fetched.Hard,
		Total:          fetched.Total,
		Ranking:        fetched.Ranking,
		Avatar:         fetched.Avatar,
		Country:        fetched.Country,
		Streak:         fetched.Streak,
		LastSubmission: fetched.LastSubmission,
		RecentProblems: fetched.RecentSubmissions,
		PreviousTotal:  previousTotal,
		TodayPoints:    domain.ComputeTodayPoints(fetched, previous),
	}
	if stat.RecentProblems == nil {
		stat.RecentProblems = []string{}
	}

	if err := uc.stats.Upsert(ctx, stat); err != nil {
		return nil, err
	}
	return stat, nil
}
