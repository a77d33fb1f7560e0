package leetcode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dsagrinders/tracker/internal/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(zap.NewNop(),
		WithEndpoint(srv.URL),
		WithRetry(3, time.Millisecond))
	return c, srv
}

func profileResponse(username string, easy, medium, hard, total int) string {
	return fmt.Sprintf(`{
		"data": {
			"matchedUser": {
				"username": %q,
				"profile": {"ranking": 12345, "userAvatar": "https://example.com/a.png", "countryName": "India"},
				"submitStatsGlobal": {"acSubmissionNum": [
					{"difficulty": "All", "count": %d},
					{"difficulty": "Easy", "count": %d},
					{"difficulty": "Medium", "count": %d},
					{"difficulty": "Hard", "count": %d}
				]},
				"submissionCalendar": "{}",
				"recentAcSubmissionList": [
					{"id": "1", "title": "Two Sum", "titleSlug": "two-sum", "timestamp": "1767225600"},
					{"id": "2", "title": "Add Two Numbers", "titleSlug": "add-two-numbers", "timestamp": "1767139200"}
				]
			}
		}
	}`, username, total, easy, medium, hard)
}

func TestFetchStatsSuccess(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		fmt.Fprint(w, profileResponse("alice", 10, 5, 2, 17))
	})

	stats, err := c.FetchStats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchStats: %v", err)
	}
	if stats.Easy != 10 || stats.Medium != 5 || stats.Hard != 2 {
		t.Errorf("tiers = %d/%d/%d, want 10/5/2", stats.Easy, stats.Medium, stats.Hard)
	}
	if stats.Total != 17 {
		t.Errorf("Total = %d, want 17", stats.Total)
	}
	if stats.Ranking != 12345 || stats.Country != "India" {
		t.Errorf("profile fields = %d/%q", stats.Ranking, stats.Country)
	}
	if stats.Avatar != "https://example.com/a.png" {
		t.Errorf("Avatar = %q", stats.Avatar)
	}
	if len(stats.RecentSubmissions) != 2 || stats.RecentSubmissions[0] != "Two Sum" {
		t.Errorf("RecentSubmissions = %v", stats.RecentSubmissions)
	}
	if stats.LastSubmission != "1767225600" {
		t.Errorf("LastSubmission = %q", stats.LastSubmission)
	}
}

func TestFetchStatsAvatarFallback(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := profileResponse("weird user", 1, 0, 0, 1)
		body = strings.Replace(body, "https://example.com/a.png", "", 1)
		fmt.Fprint(w, body)
	})

	stats, err := c.FetchStats(context.Background(), "weird user")
	if err != nil {
		t.Fatalf("FetchStats: %v", err)
	}
	if !strings.HasPrefix(stats.Avatar, "https://ui-avatars.com/api/") {
		t.Errorf("Avatar = %q, want placeholder", stats.Avatar)
	}
	if !strings.Contains(stats.Avatar, "weird+user") {
		t.Errorf("Avatar = %q, want escaped username", stats.Avatar)
	}
}

func TestFetchStatsUserNotFound(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"matchedUser": null}}`)
	})

	_, err := c.FetchStats(context.Background(), "ghost")
	var lcErr *domain.LeetCodeError
	if !errors.As(err, &lcErr) {
		t.Fatalf("error = %v, want *domain.LeetCodeError", err)
	}
	if lcErr.Code != domain.ErrCodeUserNotFound || lcErr.Retryable {
		t.Errorf("got code=%s retryable=%v", lcErr.Code, lcErr.Retryable)
	}
}

func TestFetchStatsProfilePrivate(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"matchedUser": {
			"username": "hermit",
			"submitStatsGlobal": {"acSubmissionNum": []}
		}}}`)
	})

	_, err := c.FetchStats(context.Background(), "hermit")
	var lcErr *domain.LeetCodeError
	if !errors.As(err, &lcErr) {
		t.Fatalf("error = %v, want *domain.LeetCodeError", err)
	}
	if lcErr.Code != domain.ErrCodeProfilePrivate || lcErr.Retryable {
		t.Errorf("got code=%s retryable=%v", lcErr.Code, lcErr.Retryable)
	}
}

func TestFetchStatsRateLimitExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.FetchStats(context.Background(), "busy")
	var lcErr *domain.LeetCodeError
	if !errors.As(err, &lcErr) {
		t.Fatalf("error = %v, want *domain.LeetCodeError", err)
	}
	if lcErr.Code != domain.ErrCodeRateLimited || !lcErr.Retryable {
		t.Errorf("got code=%s retryable=%v", lcErr.Code, lcErr.Retryable)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestFetchStatsRecoversAfterServerError(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, profileResponse("alice", 10, 5, 2, 17))
	})

	stats, err := c.FetchStats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchStats: %v", err)
	}
	if stats.Total != 17 {
		t.Errorf("Total = %d, want 17", stats.Total)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestFetchStatsNonRetryableStatusFailsFast(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.FetchStats(context.Background(), "alice")
	var lcErr *domain.LeetCodeError
	if !errors.As(err, &lcErr) {
		t.Fatalf("error = %v, want *domain.LeetCodeError", err)
	}
	if lcErr.Code != domain.ErrCodeAPIError || lcErr.Retryable {
		t.Errorf("got code=%s retryable=%v", lcErr.Code, lcErr.Retryable)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestFetchStatsGraphQLError(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors": [{"message": "something exploded"}]}`)
	})

	_, err := c.FetchStats(context.Background(), "alice")
	var lcErr *domain.LeetCodeError
	if !errors.As(err, &lcErr) {
		t.Fatalf("error = %v, want *domain.LeetCodeError", err)
	}
	if lcErr.Code != domain.ErrCodeAPIError || lcErr.Retryable {
		t.Errorf("got code=%s retryable=%v", lcErr.Code, lcErr.Retryable)
	}
	if !strings.Contains(lcErr.Message, "something exploded") {
		t.Errorf("Message = %q", lcErr.Message)
	}
}

func TestFetchStatsContextCancelDuringBackoff(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c.backoffBase = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.FetchStats(ctx, "busy")
		done <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("FetchStats did not return after cancel")
	}
}
