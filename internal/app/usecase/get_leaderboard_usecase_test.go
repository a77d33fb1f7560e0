package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/dsagrinders/tracker/internal/domain"
)

func TestGetLeaderboardRanksByTotalScore(t *testing.T) {
	users := &fakeUserRepo{users: []*domain.User{
		{ID: 1, Name: "Alice", LeetCodeUsername: "alice", Role: domain.RoleUser},
		{ID: 2, Name: "Bob", LeetCodeUsername: "bob", Role: domain.RoleUser},
		{ID: 3, Name: "Root", LeetCodeUsername: "root", Role: domain.RoleAdmin},
	}}

	stats := newFakeStatRepo()
	seed := func(userID int64, date string, easy, medium, hard, todayPoints int) {
		t.Helper()
		err := stats.Upsert(context.Background(), &domain.DailyStat{
			UserID: userID, Date: date,
			Easy: easy, Medium: medium, Hard: hard,
			Total: easy + medium + hard, TodayPoints: todayPoints,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	// Alice scores 37, Bob 80.
	seed(1, "2026-03-04", 10, 5, 2, 5)
	seed(2, "2026-03-04", 20, 10, 5, 0)

	uc := NewGetLeaderboardUsecase(users, stats)
	uc.Now = func() time.Time {
		return time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)
	}

	entries, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2 (admin excluded)", len(entries))
	}
	if entries[0].LeetCodeUsername != "bob" || entries[0].Rank != 1 {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[0].TotalScore != 20*domain.PointsEasy+10*domain.PointsMedium+5*domain.PointsHard {
		t.Errorf("TotalScore = %d", entries[0].TotalScore)
	}
	if entries[1].LeetCodeUsername != "alice" || entries[1].Rank != 2 {
		t.Errorf("second entry = %+v", entries[1])
	}
	if entries[1].TodayPoints != 5 {
		t.Errorf("alice TodayPoints = %d, want 5", entries[1].TodayPoints)
	}
}

func TestGetLeaderboardTodayPointsBreakTies(t *testing.T) {
	users := &fakeUserRepo{users: []*domain.User{
		{ID: 1, Name: "Alice", LeetCodeUsername: "alice", Role: domain.RoleUser},
		{ID: 2, Name: "Bob", LeetCodeUsername: "bob", Role: domain.RoleUser},
	}}
	stats := newFakeStatRepo()
	for id, pts := range map[int64]int{1: 1, 2: 6} {
		err := stats.Upsert(context.Background(), &domain.DailyStat{
			UserID: id, Date: "2026-03-04",
			Easy: 10, Total: 10, TodayPoints: pts,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	uc := NewGetLeaderboardUsecase(users, stats)
	uc.Now = func() time.Time {
		return time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)
	}

	entries, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if entries[0].LeetCodeUsername != "bob" {
		t.Errorf("tie should be broken by today's points, got %q first", entries[0].LeetCodeUsername)
	}
}

func TestGetLeaderboardUserWithoutStats(t *testing.T) {
	users := &fakeUserRepo{users: []*domain.User{
		{ID: 1, Name: "Newbie", LeetCodeUsername: "newbie", Role: domain.RoleUser},
	}}

	uc := NewGetLeaderboardUsecase(users, newFakeStatRepo())
	entries, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].TotalScore != 0 || entries[0].TodayPoints != 0 || entries[0].Rank != 1 {
		t.Errorf("entry = %+v", entries[0])
	}
}
