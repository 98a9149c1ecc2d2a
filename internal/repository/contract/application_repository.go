package contract

import (
	"context"
	"time"

	"policfy-be/internal/entity"
	"policfy-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	// Create fails with apperror.ErrDuplicateApplication when the
	// (user, policy) pair already exists, including under concurrent inserts.
	Create(ctx context.Context, app *entity.Application) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ApplicationStatus, notes *string) error
	// Delete removes every row matching all specs and reports how many went.
	Delete(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Application, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Application, error)
	FindRecent(ctx context.Context, limit int) ([]*entity.Application, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountByMonth(ctx context.Context, since time.Time) ([]entity.MonthlyCount, error)
}
