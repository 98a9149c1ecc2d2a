package unitofwork

import (
	"context"

	"policfy-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PolicyRepository() contract.PolicyRepository
	ApplicationRepository() contract.ApplicationRepository
}
