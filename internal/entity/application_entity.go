package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

var applicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

// ParseApplicationStatus is the single place where raw status strings are
// normalized. Matching ignores case and surrounding whitespace.
func ParseApplicationStatus(raw string) (ApplicationStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, s := range applicationStatuses {
		if string(s) == normalized {
			return s, true
		}
	}
	return "", false
}

func (s ApplicationStatus) IsPending() bool {
	normalized, ok := ParseApplicationStatus(string(s))
	return ok && normalized == ApplicationStatusPending
}

func (s ApplicationStatus) String() string {
	return string(s)
}

type Application struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	PolicyId  uuid.UUID
	Status    ApplicationStatus
	Notes     string
	AppliedAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Application) IsOwnedBy(userId uuid.UUID) bool {
	return a.UserId == userId
}

// MonthlyCount is the number of applications created in one calendar month.
type MonthlyCount struct {
	Year  int
	Month time.Month
	Count int64
}
