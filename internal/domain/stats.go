package domain

import (
	"context"
	"fmt"
)

// LeetCodeStats is one normalized read of a user's public LeetCode profile.
type LeetCodeStats struct {
	Easy              int      `json:"easy"`
	Medium            int      `json:"medium"`
	Hard              int      `json:"hard"`
	Total             int      `json:"total"`
	Ranking           int      `json:"ranking"`
	Avatar            string   `json:"avatar"`
	Country           string   `json:"country"`
	Streak            int      `json:"streak"`
	LastSubmission    string   `json:"lastSubmission,omitempty"`
	RecentSubmissions []string `json:"recentSubmissions"`
}

// DailyStat is the persisted snapshot of a user's cumulative counters for one
// calendar date (YYYY-MM-DD). Exactly one row exists per (user, date).
type DailyStat struct {
	ID             int64    `json:"id"`
	UserID         int64    `json:"userId"`
	Date           string   `json:"date"`
	Easy           int      `json:"easy"`
	Medium         int      `json:"medium"`
	Hard           int      `json:"hard"`
	Total          int      `json:"total"`
	Ranking        int      `json:"ranking"`
	Avatar         string   `json:"avatar"`
	Country        string   `json:"country"`
	Streak         int      `json:"streak"`
	LastSubmission string   `json:"lastSubmission,omitempty"`
	RecentProblems []string `json:"recentProblems"`
	// PreviousTotal anchors the day's point calculation and never changes on
	// a same-day re-sync.
	PreviousTotal int `json:"previousTotal"`
	TodayPoints   int `json:"todayPoints"`
}

type DailyStatRepository interface {
	// GetByUserAndDate returns the snapshot for the exact date, or nil.
	GetByUserAndDate(ctx context.Context, userID int64, date string) (*DailyStat, error)
	// GetLatestBefore returns the most recent snapshot strictly before the
	// given date, or nil.
	GetLatestBefore(ctx context.Context, userID int64, date string) (*DailyStat, error)
	// GetLatest returns the most recent snapshot for the user, or nil.
	GetLatest(ctx context.Context, userID int64) (*DailyStat, error)
	// Upsert inserts the snapshot or updates the existing (user, date) row.
	Upsert(ctx context.Context, stat *DailyStat) error
}

// LeetCode API failure classification.
const (
	ErrCodeUserNotFound   = "USER_NOT_FOUND"
	ErrCodeProfilePrivate = "PROFILE_PRIVATE"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeNetworkError   = "NETWORK_ERROR"
	ErrCodeAPIError       = "API_ERROR"
)

// LeetCodeError is a classified upstream failure. Retryable errors may be
// attempted again with backoff; the rest fail immediately.
type LeetCodeError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e *LeetCodeError) Error() string {
	return fmt.Sprintf("leetcode: %s: %s", e.Code, e.Message)
}
