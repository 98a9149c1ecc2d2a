package service

import (
	"context"
	"testing"

	"policfy-be/internal/dto"
	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicyService() IPolicyService {
	return NewPolicyService(memory.NewRepositoryFactory(memory.NewStore()), logger.NewNop())
}

var (
	policyAdmin = entity.Caller{UserId: uuid.New(), Role: entity.UserRoleAdmin}
	policyUser  = entity.Caller{UserId: uuid.New(), Role: entity.UserRoleUser}
)

func TestPolicyService_CreateDefaults(t *testing.T) {
	svc := newPolicyService()

	created, err := svc.Create(context.Background(), policyAdmin, &dto.CreatePolicyRequest{
		Title:       "Basic Travel",
		Description: "Trip cover",
		Premium:     12.5,
		Coverage:    "5000",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.Id)
	assert.Equal(t, 1, created.Duration)
	assert.Equal(t, "Other", created.Category)
	assert.True(t, created.IsActive)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestPolicyService_CreateExplicitValues(t *testing.T) {
	svc := newPolicyService()
	duration := 12
	active := false

	created, err := svc.Create(context.Background(), policyAdmin, &dto.CreatePolicyRequest{
		Title:       "Family Health",
		Description: "Hospital cover",
		Premium:     80,
		Coverage:    "250000",
		Duration:    &duration,
		Category:    "Health",
		IsActive:    &active,
	})
	require.NoError(t, err)

	assert.Equal(t, 12, created.Duration)
	assert.Equal(t, "Health", created.Category)
	assert.False(t, created.IsActive)

	shown, err := svc.Show(context.Background(), created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Family Health", shown.Title)
	assert.Equal(t, 80.0, shown.Premium)
}

func TestPolicyService_PartialUpdate(t *testing.T) {
	svc := newPolicyService()
	ctx := context.Background()

	created, err := svc.Create(ctx, policyAdmin, &dto.CreatePolicyRequest{
		Title:       "Home Shield",
		Description: "Fire and flood",
		Premium:     40,
		Coverage:    "300000",
		Category:    "Home",
	})
	require.NoError(t, err)

	premium := 55.0
	active := false
	updated, err := svc.Update(ctx, policyAdmin, created.Id, &dto.UpdatePolicyRequest{
		Premium:  &premium,
		IsActive: &active,
	})
	require.NoError(t, err)

	assert.Equal(t, 55.0, updated.Premium)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Home Shield", updated.Title)
	assert.Equal(t, "Fire and flood", updated.Description)
	assert.Equal(t, "300000", updated.Coverage)
	assert.Equal(t, "Home", updated.Category)
	assert.Equal(t, 1, updated.Duration)

	shown, err := svc.Show(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, 55.0, shown.Premium)
	assert.Equal(t, "Home Shield", shown.Title)
}

func TestPolicyService_UnknownPolicy(t *testing.T) {
	svc := newPolicyService()
	ctx := context.Background()
	missing := uuid.New()
	title := "Renamed"

	_, err := svc.Show(ctx, missing)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "Policy not found", err.Error())

	_, err = svc.Update(ctx, policyAdmin, missing, &dto.UpdatePolicyRequest{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "Policy not found", err.Error())

	err = svc.Delete(ctx, policyAdmin, missing)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "Policy not found", err.Error())
}

func TestPolicyService_AdminsOnly(t *testing.T) {
	svc := newPolicyService()
	ctx := context.Background()

	existing, err := svc.Create(ctx, policyAdmin, &dto.CreatePolicyRequest{
		Title:       "Auto Basic",
		Description: "Third party",
		Premium:     20,
		Coverage:    "50000",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, policyUser, &dto.CreatePolicyRequest{
		Title:       "Sneaky",
		Description: "Should not exist",
		Premium:     1,
		Coverage:    "1",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	title := "Hijacked"
	_, err = svc.Update(ctx, policyUser, existing.Id, &dto.UpdatePolicyRequest{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = svc.Delete(ctx, policyUser, existing.Id)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Auto Basic", all[0].Title)
}

func TestPolicyService_ListAndDelete(t *testing.T) {
	svc := newPolicyService()
	ctx := context.Background()

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	var ids []uuid.UUID
	for _, title := range []string{"Life Plus", "Pet Care"} {
		created, err := svc.Create(ctx, policyAdmin, &dto.CreatePolicyRequest{
			Title:       title,
			Description: "desc",
			Premium:     10,
			Coverage:    "1000",
		})
		require.NoError(t, err)
		ids = append(ids, created.Id)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.Delete(ctx, policyAdmin, ids[0]))

	all, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, ids[1], all[0].Id)

	_, err = svc.Show(ctx, ids[0])
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
