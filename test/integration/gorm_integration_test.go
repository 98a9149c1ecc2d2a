package integration

import (
	"context"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"policfy-be/internal/entity"
	"policfy-be/internal/model"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/repository/specification"
	"policfy-be/internal/repository/unitofwork"
	"policfy-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormApplicationRepository(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(model.All()...))

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(gormDB).NewUnitOfWork(ctx)

	now := time.Now()
	user := &entity.User{
		Id:        uuid.New(),
		Name:      "Integration User",
		Email:     "it-" + uuid.NewString() + "@example.com",
		Role:      entity.UserRoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	policy := &entity.Policy{
		Id:          uuid.New(),
		Title:       "Integration Policy",
		Description: "Created by the integration test",
		Premium:     10,
		Coverage:    "$1",
		Duration:    1,
		Category:    entity.PolicyCategoryOther,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	require.NoError(t, uow.PolicyRepository().Create(ctx, policy))

	defer func() {
		gormDB.Where("user_id = ?", user.Id).Delete(&model.Application{})
		gormDB.Delete(&model.Policy{}, "id = ?", policy.Id)
		gormDB.Delete(&model.User{}, "id = ?", user.Id)
	}()

	t.Run("Concurrent inserts keep one row per pair", func(t *testing.T) {
		var created, duplicates atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := uow.ApplicationRepository().Create(ctx, &entity.Application{
					Id:        uuid.New(),
					UserId:    user.Id,
					PolicyId:  policy.Id,
					Status:    entity.ApplicationStatusPending,
					AppliedAt: time.Now(),
				})
				switch {
				case err == nil:
					created.Add(1)
				case assert.ErrorIs(t, err, apperror.ErrDuplicateApplication):
					duplicates.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), created.Load())
		assert.Equal(t, int32(19), duplicates.Load())
	})

	t.Run("Conditional delete only removes pending", func(t *testing.T) {
		app, err := uow.ApplicationRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: user.Id},
			specification.ByPolicyID{PolicyID: policy.Id},
		)
		require.NoError(t, err)
		require.NotNil(t, app)

		require.NoError(t, uow.ApplicationRepository().UpdateStatus(ctx, app.Id, entity.ApplicationStatusApproved, nil))

		n, err := uow.ApplicationRepository().Delete(ctx,
			specification.ByID{ID: app.Id},
			specification.UserOwnedBy{UserID: user.Id},
			specification.ByStatus{Status: string(entity.ApplicationStatusPending)},
		)
		require.NoError(t, err)
		assert.Zero(t, n)

		require.NoError(t, uow.ApplicationRepository().UpdateStatus(ctx, app.Id, entity.ApplicationStatusPending, nil))
		n, err = uow.ApplicationRepository().Delete(ctx,
			specification.ByID{ID: app.Id},
			specification.UserOwnedBy{UserID: user.Id},
			specification.ByStatus{Status: string(entity.ApplicationStatusPending)},
		)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
