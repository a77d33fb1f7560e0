package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/dsagrinders/tracker/internal/domain"
)

type LeaderboardEntry struct {
	Rank             int      `json:"rank"`
	UserID           int64    `json:"id"`
	Name             string   `json:"name"`
	LeetCodeUsername string   `json:"leetcodeUsername"`
	TodayPoints      int      `json:"todayPoints"`
	TotalScore       int      `json:"totalScore"`
	TotalProblems    int      `json:"totalProblems"`
	Easy             int      `json:"easy"`
	Medium           int      `json:"medium"`
	Hard             int      `json:"hard"`
	Ranking          int      `json:"ranking"`
	Avatar           string   `json:"avatar,omitempty"`
	Country          string   `json:"country,omitempty"`
	Streak           int      `json:"streak"`
	LastSubmission   string   `json:"lastSubmission,omitempty"`
	RecentProblems   []string `json:"recentProblems,omitempty"`
}

// GetLeaderboardUsecase builds the ranked read-model by joining each active
// user with their latest and today's snapshots. Nothing here is persisted.
type GetLeaderboardUsecase struct {
	users domain.UserRepository
	stats domain.DailyStatRepository

	Now func() time.Time
}

func NewGetLeaderboardUsecase(users domain.UserRepository, stats domain.DailyStatRepository) *GetLeaderboardUsecase {
	return &GetLeaderboardUsecase{users: users, stats: stats, Now: time.Now}
}

func (uc *GetLeaderboardUsecase) Execute(ctx context.Context) ([]LeaderboardEntry, error) {
	users, err := uc.users.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	today := uc.Now().UTC().Format("2006-01-02")
	entries := make([]LeaderboardEntry, 0, len(users))

	for _, user := range users {
		entry := LeaderboardEntry{
			UserID:           user.ID,
			Name:             user.Name,
			LeetCodeUsername: user.LeetCodeUsername,
		}

		latest, err := uc.stats.GetLatest(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			entry.Easy = latest.Easy
			entry.Medium = latest.Medium
			entry.Hard = latest.Hard
			entry.TotalProblems = latest.Total
			entry.Ranking = latest.Ranking
			entry.Avatar = latest.Avatar
			entry.Country = latest.Country
			entry.Streak = latest.Streak
			entry.LastSubmission = latest.LastSubmission
			entry.RecentProblems = latest.RecentProblems
			entry.TotalScore = domain.TotalScore(latest.Easy, latest.Medium, latest.Hard)
		}

		todayStat, err := uc.stats.GetByUserAndDate(ctx, user.ID, today)
		if err != nil {
			return nil, err
		}
		if todayStat != nil {
			entry.TodayPoints = todayStat.TodayPoints
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].TodayPoints > entries[j].TodayPoints
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
