package user

import (
	"context"
	"testing"

	"policfy-be/internal/dto"
	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/repository/memory"
	"policfy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUow() unitofwork.UnitOfWork {
	return memory.NewRepositoryFactory(memory.NewStore()).NewUnitOfWork(context.Background())
}

func TestManager_CreateAdmin(t *testing.T) {
	ctx := context.Background()
	uow := newUow()
	m := NewManager(logger.NewNop(), "admin@example.com")

	created, err := m.CreateAdmin(ctx, uow, dto.CreateAdminRequest{Email: "ops@policfy.io", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ops", created.Name)
	assert.Equal(t, entity.UserRoleAdmin, created.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret1")))

	_, err = m.CreateAdmin(ctx, uow, dto.CreateAdminRequest{Email: "ops@policfy.io", Password: "secret2"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestManager_Update(t *testing.T) {
	ctx := context.Background()
	uow := newUow()
	m := NewManager(logger.NewNop(), "admin@example.com")

	a := &entity.User{Id: uuid.New(), Name: "A", Email: "a@example.com", Role: entity.UserRoleUser}
	b := &entity.User{Id: uuid.New(), Name: "B", Email: "b@example.com", Role: entity.UserRoleUser}
	require.NoError(t, uow.UserRepository().Create(ctx, a))
	require.NoError(t, uow.UserRepository().Create(ctx, b))

	role := "admin"
	name := "Ada"
	updated, err := m.Update(ctx, uow, a.Id, dto.AdminUpdateUserRequest{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, entity.UserRoleAdmin, updated.Role)
	assert.Equal(t, "a@example.com", updated.Email)

	taken := "b@example.com"
	_, err = m.Update(ctx, uow, a.Id, dto.AdminUpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = m.Update(ctx, uow, uuid.New(), dto.AdminUpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestManager_Delete(t *testing.T) {
	ctx := context.Background()
	uow := newUow()
	m := NewManager(logger.NewNop(), "admin@example.com")

	super := &entity.User{Id: uuid.New(), Name: "admin", Email: "admin@example.com", Role: entity.UserRoleAdmin}
	actor := &entity.User{Id: uuid.New(), Name: "ops", Email: "ops@example.com", Role: entity.UserRoleAdmin}
	victim := &entity.User{Id: uuid.New(), Name: "v", Email: "v@example.com", Role: entity.UserRoleUser}
	for _, u := range []*entity.User{super, actor, victim} {
		require.NoError(t, uow.UserRepository().Create(ctx, u))
	}

	tests := []struct {
		name    string
		target  uuid.UUID
		wantErr error
	}{
		{"super admin", super.Id, apperror.ErrForbidden},
		{"self", actor.Id, apperror.ErrForbidden},
		{"missing", uuid.New(), apperror.ErrNotFound},
		{"regular user", victim.Id, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Delete(ctx, uow, actor.Id, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	remaining, err := uow.UserRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), remaining)
}

func TestManager_EnsureSuperAdmin(t *testing.T) {
	ctx := context.Background()
	uow := newUow()
	m := NewManager(logger.NewNop(), "root@policfy.io")

	created, err := m.EnsureSuperAdmin(ctx, uow, "hunter22")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = m.EnsureSuperAdmin(ctx, uow, "other-password")
	require.NoError(t, err)
	assert.False(t, created)

	admins, err := uow.UserRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), admins)
}
