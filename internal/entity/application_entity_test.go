package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseApplicationStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want ApplicationStatus
		ok   bool
	}{
		{"pending", ApplicationStatusPending, true},
		{"Approved", ApplicationStatusApproved, true},
		{"  REJECTED ", ApplicationStatusRejected, true},
		{"", "", false},
		{"cancelled", "", false},
		{"approved!", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseApplicationStatus(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestApplicationStatus_IsPending(t *testing.T) {
	assert.True(t, ApplicationStatusPending.IsPending())
	assert.True(t, ApplicationStatus(" Pending").IsPending())
	assert.False(t, ApplicationStatusApproved.IsPending())
	assert.False(t, ApplicationStatus("garbage").IsPending())
}

func TestApplication_IsOwnedBy(t *testing.T) {
	owner := uuid.New()
	app := &Application{Id: uuid.New(), UserId: owner}

	assert.True(t, app.IsOwnedBy(owner))
	assert.False(t, app.IsOwnedBy(uuid.New()))
}
