package contract

import (
	"context"

	"policfy-be/internal/entity"
	"policfy-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PolicyRepository interface {
	Create(ctx context.Context, policy *entity.Policy) error
	Update(ctx context.Context, policy *entity.Policy) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Policy, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Policy, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
