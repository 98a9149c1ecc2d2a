package dto

import (
	"time"

	"github.com/google/uuid"
)

type ApplyRequest struct {
	// UserId is accepted for client compatibility; the applicant is always the caller.
	UserId   string    `json:"userId"`
	PolicyId uuid.UUID `json:"policyId" validate:"required"`
}

// UpdateApplicationStatusRequest leaves the stored notes untouched when Notes is nil.
type UpdateApplicationStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes" validate:"omitempty,max=1000"`
}

// ApplicationResponse is the bare record with no resolved references.
type ApplicationResponse struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"userId"`
	PolicyId  uuid.UUID `json:"policyId"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	AppliedAt time.Time `json:"applicationDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserApplicationResponse carries the full policy for the applicant's own view.
type UserApplicationResponse struct {
	ApplicationResponse
	Policy PolicyResponse `json:"policy"`
}

// ApplicantSummary is the only user data the admin listing exposes.
type ApplicantSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PolicySummary struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

type AdminApplicationResponse struct {
	ApplicationResponse
	User   ApplicantSummary `json:"user"`
	Policy PolicySummary    `json:"policy"`
}

// ApplicationUpdate is pushed to the applicant's live connections.
type ApplicationUpdate struct {
	ApplicationId uuid.UUID `json:"applicationId"`
	PolicyId      uuid.UUID `json:"policyId"`
	Event         string    `json:"event"`
	Status        string    `json:"status"`
	At            time.Time `json:"at"`
}
