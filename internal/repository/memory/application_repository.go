package memory

import (
	"context"
	"time"

	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/repository/contract"
	"policfy-be/internal/repository/specification"

	"github.com/google/uuid"
)

type applicationRepository struct {
	store *Store
}

func NewApplicationRepository(store *Store) contract.ApplicationRepository {
	return &applicationRepository{store: store}
}

var applicationAccessors = accessors[entity.Application]{
	id:        func(a *entity.Application) uuid.UUID { return a.Id },
	createdAt: func(a *entity.Application) time.Time { return a.CreatedAt },
	match: func(a *entity.Application, spec specification.Specification) (bool, error) {
		switch s := spec.(type) {
		case specification.UserOwnedBy:
			return a.UserId == s.UserID, nil
		case specification.ByPolicyID:
			return a.PolicyId == s.PolicyID, nil
		case specification.ByStatus:
			return string(a.Status) == s.Status, nil
		}
		return false, unsupported(spec)
	},
}

// rows must be called with the store lock held.
func (r *applicationRepository) rows() []*entity.Application {
	rows := make([]*entity.Application, 0, len(r.store.applications))
	for _, a := range r.store.applications {
		row := a
		rows = append(rows, &row)
	}
	return rows
}

func (r *applicationRepository) Create(ctx context.Context, app *entity.Application) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := applicationKey{userId: app.UserId, policyId: app.PolicyId}
	if _, exists := r.store.applicationsByPair[key]; exists {
		return apperror.New(apperror.ErrDuplicateApplication, "You have already applied for this policy")
	}

	now := time.Now()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = now
	}

	r.store.applications[app.Id] = *app
	r.store.applicationsByPair[key] = app.Id
	return nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ApplicationStatus, notes *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	app, ok := r.store.applications[id]
	if !ok {
		return nil
	}
	app.Status = status
	if notes != nil {
		app.Notes = *notes
	}
	app.UpdatedAt = time.Now()
	r.store.applications[id] = app
	return nil
}

func (r *applicationRepository) Delete(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched, err := selectRows(r.rows(), applicationAccessors, specs)
	if err != nil {
		return 0, err
	}
	for _, a := range matched {
		delete(r.store.applications, a.Id)
		delete(r.store.applicationsByPair, applicationKey{userId: a.UserId, policyId: a.PolicyId})
	}
	return int64(len(matched)), nil
}

func (r *applicationRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Application, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *applicationRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Application, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return selectRows(r.rows(), applicationAccessors, specs)
}

func (r *applicationRepository) FindRecent(ctx context.Context, limit int) ([]*entity.Application, error) {
	return r.FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
}

func (r *applicationRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (r *applicationRepository) CountByMonth(ctx context.Context, since time.Time) ([]entity.MonthlyCount, error) {
	all, err := r.FindAll(ctx, specification.CreatedSince{Since: since})
	if err != nil {
		return nil, err
	}

	result := make([]entity.MonthlyCount, 0)
	for _, a := range all {
		year, month := a.CreatedAt.Year(), a.CreatedAt.Month()
		n := len(result)
		if n > 0 && result[n-1].Year == year && result[n-1].Month == month {
			result[n-1].Count++
			continue
		}
		result = append(result, entity.MonthlyCount{Year: year, Month: month, Count: 1})
	}
	return result, nil
}
