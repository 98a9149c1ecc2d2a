package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApplication(userId, policyId uuid.UUID, createdAt time.Time) *entity.Application {
	return &entity.Application{
		Id:        uuid.New(),
		UserId:    userId,
		PolicyId:  policyId,
		Status:    entity.ApplicationStatusPending,
		AppliedAt: createdAt,
		CreatedAt: createdAt,
	}
}

func TestApplicationRepository_CreateRejectsDuplicatePair(t *testing.T) {
	repo := NewApplicationRepository(NewStore())
	ctx := context.Background()
	userId, policyId := uuid.New(), uuid.New()

	require.NoError(t, repo.Create(ctx, newApplication(userId, policyId, time.Now())))

	err := repo.Create(ctx, newApplication(userId, policyId, time.Now()))
	assert.True(t, errors.Is(err, apperror.ErrDuplicateApplication))

	require.NoError(t, repo.Create(ctx, newApplication(uuid.New(), policyId, time.Now())))
	require.NoError(t, repo.Create(ctx, newApplication(userId, uuid.New(), time.Now())))
}

func TestApplicationRepository_ConcurrentCreate(t *testing.T) {
	repo := NewApplicationRepository(NewStore())
	userId, policyId := uuid.New(), uuid.New()

	var created atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Create(context.Background(), newApplication(userId, policyId, time.Now())); err == nil {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
}

func TestApplicationRepository_DeleteFreesPair(t *testing.T) {
	repo := NewApplicationRepository(NewStore())
	ctx := context.Background()
	userId, policyId := uuid.New(), uuid.New()

	app := newApplication(userId, policyId, time.Now())
	require.NoError(t, repo.Create(ctx, app))

	n, err := repo.Delete(ctx, specification.ByID{ID: app.Id}, specification.ByStatus{Status: "approved"})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.Delete(ctx, specification.ByID{ID: app.Id}, specification.UserOwnedBy{UserID: userId})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.Create(ctx, newApplication(userId, policyId, time.Now())))
}

func TestApplicationRepository_FindAllFiltersAndOrders(t *testing.T) {
	repo := NewApplicationRepository(NewStore())
	ctx := context.Background()
	userId := uuid.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	oldest := newApplication(userId, uuid.New(), base)
	middle := newApplication(userId, uuid.New(), base.Add(time.Hour))
	newest := newApplication(userId, uuid.New(), base.Add(2*time.Hour))
	other := newApplication(uuid.New(), uuid.New(), base.Add(3*time.Hour))
	for _, a := range []*entity.Application{middle, other, newest, oldest} {
		require.NoError(t, repo.Create(ctx, a))
	}

	got, err := repo.FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uuid.UUID{newest.Id, middle.Id, oldest.Id}, []uuid.UUID{got[0].Id, got[1].Id, got[2].Id})

	page, err := repo.FindAll(ctx, specification.Pagination{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, middle.Id, page[0].Id)

	_, err = repo.FindAll(ctx, specification.OrderBy{Field: "title"})
	assert.Error(t, err)

	_, err = repo.FindAll(ctx, specification.ByEmail{Email: "x@example.com"})
	assert.Error(t, err)
}

func TestApplicationRepository_UpdateStatusAndCounts(t *testing.T) {
	repo := NewApplicationRepository(NewStore())
	ctx := context.Background()

	jan := newApplication(uuid.New(), uuid.New(), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	feb1 := newApplication(uuid.New(), uuid.New(), time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC))
	feb2 := newApplication(uuid.New(), uuid.New(), time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC))
	for _, a := range []*entity.Application{jan, feb1, feb2} {
		require.NoError(t, repo.Create(ctx, a))
	}

	notes := "Documents verified"
	require.NoError(t, repo.UpdateStatus(ctx, feb1.Id, entity.ApplicationStatusApproved, &notes))
	require.NoError(t, repo.UpdateStatus(ctx, uuid.New(), entity.ApplicationStatusApproved, nil))

	stored, err := repo.FindOne(ctx, specification.ByID{ID: feb1.Id})
	require.NoError(t, err)
	assert.Equal(t, "Documents verified", stored.Notes)

	approved, err := repo.Count(ctx, specification.ByStatus{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), approved)

	months, err := repo.CountByMonth(ctx, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []entity.MonthlyCount{
		{Year: 2026, Month: time.January, Count: 1},
		{Year: 2026, Month: time.February, Count: 2},
	}, months)
}
