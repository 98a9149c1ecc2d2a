package memory

import (
	"context"
	"time"

	"policfy-be/internal/entity"
	"policfy-be/internal/repository/contract"
	"policfy-be/internal/repository/specification"

	"github.com/google/uuid"
)

type policyRepository struct {
	store *Store
}

func NewPolicyRepository(store *Store) contract.PolicyRepository {
	return &policyRepository{store: store}
}

var policyAccessors = accessors[entity.Policy]{
	id:        func(p *entity.Policy) uuid.UUID { return p.Id },
	createdAt: func(p *entity.Policy) time.Time { return p.CreatedAt },
	match: func(p *entity.Policy, spec specification.Specification) (bool, error) {
		if _, ok := spec.(specification.ActivePolicies); ok {
			return p.IsActive, nil
		}
		return false, unsupported(spec)
	},
}

func (r *policyRepository) Create(ctx context.Context, policy *entity.Policy) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	if policy.CreatedAt.IsZero() {
		policy.CreatedAt = now
	}
	policy.UpdatedAt = now
	r.store.policies[policy.Id] = *policy
	return nil
}

func (r *policyRepository) Update(ctx context.Context, policy *entity.Policy) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	policy.UpdatedAt = time.Now()
	r.store.policies[policy.Id] = *policy
	return nil
}

func (r *policyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.policies, id)
	return nil
}

func (r *policyRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Policy, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *policyRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Policy, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows := make([]*entity.Policy, 0, len(r.store.policies))
	for _, p := range r.store.policies {
		row := p
		rows = append(rows, &row)
	}
	return selectRows(rows, policyAccessors, specs)
}

func (r *policyRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}
