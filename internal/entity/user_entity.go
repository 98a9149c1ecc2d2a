package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// Shown in place of a user that no longer exists.
const UnknownUserName = "Unknown User"

type User struct {
	Id           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// RedirectPath is where the client lands after signing in.
func (u *User) RedirectPath() string {
	if u.IsAdmin() {
		return "/admin"
	}
	return "/"
}
