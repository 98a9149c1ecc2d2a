package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByPolicyID struct {
	PolicyID uuid.UUID
}

func (s ByPolicyID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("policy_id = ?", s.PolicyID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// CreatedSince keeps rows created at or after Since.
type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}
