package entity

import (
	"time"

	"github.com/google/uuid"
)

type PolicyCategory string

const (
	PolicyCategoryLife     PolicyCategory = "Life"
	PolicyCategoryHealth   PolicyCategory = "Health"
	PolicyCategoryHome     PolicyCategory = "Home"
	PolicyCategoryAuto     PolicyCategory = "Auto"
	PolicyCategoryTravel   PolicyCategory = "Travel"
	PolicyCategoryProperty PolicyCategory = "Property"
	PolicyCategoryBusiness PolicyCategory = "Business"
	PolicyCategoryOther    PolicyCategory = "Other"
)

// Shown in place of a policy that no longer exists.
const UnknownPolicyTitle = "Unknown Policy"

type Policy struct {
	Id          uuid.UUID
	Title       string
	Description string
	Premium     float64
	Coverage    string
	Duration    int // years
	Category    PolicyCategory
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
