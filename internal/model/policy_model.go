package model

import (
	"time"

	"github.com/google/uuid"
)

type Policy struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null"`
	Premium     float64   `gorm:"type:numeric(12,2);not null"`
	Coverage    string    `gorm:"type:text;not null"`
	Duration    int       `gorm:"not null"`
	Category    string    `gorm:"type:varchar(50);not null;index"`
	IsActive    bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Policy) TableName() string {
	return "policies"
}
