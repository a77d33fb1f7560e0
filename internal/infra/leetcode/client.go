package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/dsagrinders/tracker/internal/domain"
)

const defaultEndpoint = "https://leetcode.com/graphql"

const profileQuery = `
	query getUserProfile($username: String!) {
		matchedUser(username: $username) {
			username
			profile {
				ranking
				userAvatar
				countryName
			}
			submitStatsGlobal {
				acSubmissionNum {
					difficulty
					count
				}
			}
			submissionCalendar
			recentAcSubmissionList(limit: 5) {
				id
				title
				titleSlug
				timestamp
			}
		}
	}`

// Client fetches public profile statistics from the LeetCode GraphQL API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	log        *zap.Logger

	// maxAttempts bounds the total number of tries for retryable failures;
	// backoffBase doubles between attempts (1s, 2s, ...).
	maxAttempts int
	backoffBase time.Duration
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

func WithRetry(maxAttempts int, backoffBase time.Duration) Option {
	return func(c *Client) {
		c.maxAttempts = maxAttempts
		c.backoffBase = backoffBase
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		endpoint:    defaultEndpoint,
		log:         log,
		maxAttempts: 3,
		backoffBase: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLResponse struct {
	Data struct {
		MatchedUser *struct {
			Username string `json:"username"`
			Profile  *struct {
				Ranking     int    `json:"ranking"`
				UserAvatar  string `json:"userAvatar"`
				CountryName string `json:"countryName"`
			} `json:"profile"`
			SubmitStatsGlobal *struct {
				ACSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStatsGlobal"`
			SubmissionCalendar     string `json:"submissionCalendar"`
			RecentACSubmissionList []struct {
				ID        string `json:"id"`
				Title     string `json:"title"`
				TitleSlug string `json:"titleSlug"`
				Timestamp string `json:"timestamp"`
			} `json:"recentAcSubmissionList"`
		} `json:"matchedUser"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchStats queries the profile for the given handle and normalizes the
// response. Retryable failures (429, 5xx, transport errors) are retried with
// exponential backoff up to the attempt cap; everything else fails
// immediately with a classified *domain.LeetCodeError.
func (c *Client) FetchStats(ctx context.Context, username string) (*domain.LeetCodeStats, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.backoffBase << (attempt - 1)
			c.log.Debug("retrying leetcode fetch",
				zap.String("username", username),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		stats, err := c.fetchOnce(ctx, username)
		if err == nil {
			return stats, nil
		}
		lastErr = err

		var lcErr *domain.LeetCodeError
		if !errors.As(err, &lcErr) || !lcErr.Retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, username string) (*domain.LeetCodeStats, error) {
	body, err := json.Marshal(map[string]any{
		"query":     profileQuery,
		"variables": map[string]string{"username": username},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.LeetCodeError{
			Code:      domain.ErrCodeNetworkError,
			Message:   err.Error(),
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &domain.LeetCodeError{
			Code:      domain.ErrCodeRateLimited,
			Message:   "LeetCode API rate limit exceeded",
			Retryable: true,
		}
	case resp.StatusCode >= 500:
		return nil, &domain.LeetCodeError{
			Code:      domain.ErrCodeAPIError,
			Message:   fmt.Sprintf("LeetCode API returned status %d", resp.StatusCode),
			Retryable: true,
		}
	case resp.StatusCode != http.StatusOK:
		return nil, &domain.LeetCodeError{
			Code:      domain.ErrCodeAPIError,
			Message:   fmt.Sprintf("LeetCode API returned status %d", resp.StatusCode),
			Retryable: false,
		}
	}

	var gql graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gql); err != nil {
		return nil, &domain.LeetCodeError{
			Code:      domain.ErrCodeAPIError,
			Message:   "invalid response from LeetCode API: " + err.Error(),
			Retryable: false,
		}
	}

	if len(gql.Errors) > 0 {
		return nil, &domain.LeetCodeError{
			Code:      domain.ErrCodeAPIError,
			Message:   gql.Errors[0].Message,
			Retryable: false,
		}
	}

	mu := gql.Data.MatchedUser
	if mu == nil {
		return nil, &domain.LeetCodeError{
			Code:      domain.ErrCodeUserNotFound,
			Message:   fmt.Sprintf("user %q not found on LeetCode, check the username is correct", username),
			Retryable: false,
		}
	}
	if mu.SubmitStatsGlobal == nil || len(mu.SubmitStatsGlobal.ACSubmissionNum) == 0 {
		return nil, &domain.LeetCodeError{
			Code:      domain.ErrCodeProfilePrivate,
			Message:   fmt.Sprintf("could not fetch submission stats for %q, the profile may be private", username),
			Retryable: false,
		}
	}

	stats := &domain.LeetCodeStats{}
	for _, s := range mu.SubmitStatsGlobal.ACSubmissionNum {
		switch s.Difficulty {
		case "Easy":
			stats.Easy = s.Count
		case "Medium":
			stats.Medium = s.Count
		case "Hard":
			stats.Hard = s.Count
		case "All":
			// Upstream-reported cumulative total is trusted as-is, not
			// recomputed from the tiers.
			stats.Total = s.Count
		}
	}
	if mu.Profile != nil {
		stats.Ranking = mu.Profile.Ranking
		stats.Avatar = mu.Profile.UserAvatar
		stats.Country = mu.Profile.CountryName
	}
	if stats.Avatar == "" {
		stats.Avatar = placeholderAvatar(username)
	}

	stats.Streak = StreakFromCalendar(mu.SubmissionCalendar, time.Now().Unix())

	for _, s := range mu.RecentACSubmissionList {
		stats.RecentSubmissions = append(stats.RecentSubmissions, s.Title)
	}
	if len(mu.RecentACSubmissionList) > 0 {
		stats.LastSubmission = mu.RecentACSubmissionList[0].Timestamp
	}
	return stats, nil
}

// placeholderAvatar synthesizes an avatar URL keyed by the handle for
// profiles without an avatar image.
func placeholderAvatar(username string) string {
	return "https://ui-avatars.com/api/?background=random&name=" + url.QueryEscape(username)
}
