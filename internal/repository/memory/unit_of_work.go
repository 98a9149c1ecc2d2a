package memory

import (
	"context"
	"fmt"

	"policfy-be/internal/repository/contract"
	"policfy-be/internal/repository/unitofwork"
)

type repositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &repositoryFactory{store: store}
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// unitOfWork tracks Begin/Commit pairing only. Writes apply immediately, so
// Rollback does not undo them.
type unitOfWork struct {
	store  *Store
	active bool
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	u.active = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}
	u.active = false
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.active {
		return fmt.Errorf("no transaction to rollback")
	}
	u.active = false
	return nil
}

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return NewUserRepository(u.store)
}

func (u *unitOfWork) PolicyRepository() contract.PolicyRepository {
	return NewPolicyRepository(u.store)
}

func (u *unitOfWork) ApplicationRepository() contract.ApplicationRepository {
	return NewApplicationRepository(u.store)
}
