package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePolicyRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Premium     float64 `json:"premium" validate:"required,gt=0"`
	Coverage    string  `json:"coverage" validate:"required"`
	Duration    *int    `json:"duration" validate:"omitempty,gte=1"`
	Category    string  `json:"category" validate:"omitempty,oneof=Life Health Home Auto Travel Property Business Other"`
	IsActive    *bool   `json:"isActive"`
}

// UpdatePolicyRequest is a partial update; nil fields are left untouched.
type UpdatePolicyRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	Premium     *float64 `json:"premium" validate:"omitempty,gt=0"`
	Coverage    *string  `json:"coverage" validate:"omitempty,min=1"`
	Duration    *int     `json:"duration" validate:"omitempty,gte=1"`
	Category    *string  `json:"category" validate:"omitempty,oneof=Life Health Home Auto Travel Property Business Other"`
	IsActive    *bool    `json:"isActive"`
}

type PolicyResponse struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Premium     float64   `json:"premium"`
	Coverage    string    `json:"coverage"`
	Duration    int       `json:"duration"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
