package implementation

import (
	"context"
	"errors"
	"time"

	"policfy-be/internal/entity"
	"policfy-be/internal/mapper"
	"policfy-be/internal/model"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/repository/contract"
	"policfy-be/internal/repository/scope"
	"policfy-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ApplicationMapper
}

func NewApplicationRepository(db *gorm.DB) contract.ApplicationRepository {
	return &ApplicationRepositoryImpl{
		db:     db,
		mapper: mapper.NewApplicationMapper(),
	}
}

func (r *ApplicationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Create relies on idx_application_user_policy; there is no read-before-write.
func (r *ApplicationRepositoryImpl) Create(ctx context.Context, app *entity.Application) error {
	m := r.mapper.ToModel(app)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.ErrDuplicateApplication, "You have already applied for this policy")
		}
		return err
	}
	*app = *r.mapper.ToEntity(m)
	return nil
}

func (r *ApplicationRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ApplicationStatus, notes *string) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	return r.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *ApplicationRepositoryImpl) Delete(ctx context.Context, specs ...specification.Specification) (int64, error) {
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	res := query.Delete(&model.Application{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *ApplicationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Application, error) {
	var m model.Application
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *ApplicationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Application, error) {
	var models []*model.Application
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *ApplicationRepositoryImpl) FindRecent(ctx context.Context, limit int) ([]*entity.Application, error) {
	var models []*model.Application
	if err := r.db.WithContext(ctx).Scopes(scope.OrderByCreatedDesc).Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ApplicationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Application{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ApplicationRepositoryImpl) CountByMonth(ctx context.Context, since time.Time) ([]entity.MonthlyCount, error) {
	var rows []struct {
		Year  int
		Month int
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&model.Application{}).
		Select("EXTRACT(YEAR FROM created_at)::int AS year, EXTRACT(MONTH FROM created_at)::int AS month, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("year, month").
		Order("year, month").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]entity.MonthlyCount, 0, len(rows))
	for _, row := range rows {
		result = append(result, entity.MonthlyCount{
			Year:  row.Year,
			Month: time.Month(row.Month),
			Count: row.Count,
		})
	}
	return result, nil
}
