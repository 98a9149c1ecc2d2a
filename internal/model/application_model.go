package model

import (
	"time"

	"github.com/google/uuid"
)

// Application rows are unique per (user_id, policy_id). The composite index is
// what rejects a racing second insert.
type Application struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_user_policy,priority:1"`
	PolicyId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_user_policy,priority:2;index"`
	Status    string    `gorm:"type:varchar(20);not null;index"`
	Notes     string    `gorm:"type:text"`
	AppliedAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Application) TableName() string {
	return "applications"
}
