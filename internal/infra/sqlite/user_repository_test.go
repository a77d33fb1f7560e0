package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/dsagrinders/tracker/internal/domain"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	u := &domain.User{
		Name:             "Alice",
		Email:            "alice@example.com",
		LeetCodeUsername: "alice",
		PhoneNumber:      "919999900001",
	}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("Create should set the id")
	}
	if u.Role != domain.RoleUser {
		t.Errorf("Role = %q, want default %q", u.Role, domain.RoleUser)
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil")
	}
	if got.Email != u.Email || got.LeetCodeUsername != u.LeetCodeUsername {
		t.Errorf("got %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should round-trip")
	}
}

func TestUserRepositoryGetByIDMissing(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	got, err := repo.GetByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestUserRepositoryListActive(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	seed := []*domain.User{
		{Name: "Alice", Email: "a@example.com", LeetCodeUsername: "alice"},
		{Name: "Pending", Email: "p@example.com", LeetCodeUsername: "pending_p@example.com"},
		{Name: "Root", Email: "r@example.com", LeetCodeUsername: "root", Role: domain.RoleAdmin},
		{Name: "Bob", Email: "b@example.com", LeetCodeUsername: "bob"},
	}
	for _, u := range seed {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create %s: %v", u.Name, err)
		}
	}

	active, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("len(active) = %d, want 2", len(active))
	}
	if active[0].LeetCodeUsername != "alice" || active[1].LeetCodeUsername != "bob" {
		t.Errorf("active = [%s, %s], want stable id order",
			active[0].LeetCodeUsername, active[1].LeetCodeUsername)
	}
}

func TestUserRepositoryListAllNewestFirst(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	older := &domain.User{
		Name: "Old", Email: "old@example.com", LeetCodeUsername: "old",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := &domain.User{
		Name: "New", Email: "new@example.com", LeetCodeUsername: "new",
		CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, u := range []*domain.User{older, newer} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 || all[0].LeetCodeUsername != "new" {
		t.Errorf("all = %+v, want newest first", all)
	}
}

func TestUserRepositoryDuplicateEmailRejected(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	u1 := &domain.User{Name: "A", Email: "dup@example.com", LeetCodeUsername: "a"}
	u2 := &domain.User{Name: "B", Email: "dup@example.com", LeetCodeUsername: "b"}
	if err := repo.Create(ctx, u1); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, u2); err == nil {
		t.Error("duplicate email should be rejected")
	}
}
