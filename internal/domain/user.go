package domain

import (
	"context"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// PendingHandlePrefix marks a signup whose LeetCode handle has not been
// confirmed yet. Such users are excluded from automation sweeps.
const PendingHandlePrefix = "pending_"

type User struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	LeetCodeUsername string    `json:"leetcodeUsername"`
	PhoneNumber      string    `json:"phoneNumber,omitempty"`
	Role             string    `json:"role"`
	CreatedAt        time.Time `json:"createdAt"`
}

// IsPending reports whether the user's profile is incomplete.
func (u *User) IsPending() bool {
	return strings.HasPrefix(u.LeetCodeUsername, PendingHandlePrefix)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	// ListActive returns users eligible for automation sweeps: every user
	// whose role is not admin and whose handle is not pending, in a stable
	// order (by id).
	ListActive(ctx context.Context) ([]*User, error)
	// ListAll returns every user, newest first.
	ListAll(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, u *User) error
}
