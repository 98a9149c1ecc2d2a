package entity

import "github.com/google/uuid"

// Caller is the authenticated identity an operation runs on behalf of.
type Caller struct {
	UserId uuid.UUID
	Role   UserRole
}

func (c Caller) IsAdmin() bool {
	return c.Role == UserRoleAdmin
}
