package mapper

import (
	"policfy-be/internal/entity"
	"policfy-be/internal/model"
)

type ApplicationMapper struct{}

func NewApplicationMapper() *ApplicationMapper {
	return &ApplicationMapper{}
}

func (m *ApplicationMapper) ToEntity(a *model.Application) *entity.Application {
	if a == nil {
		return nil
	}
	return &entity.Application{
		Id:        a.Id,
		UserId:    a.UserId,
		PolicyId:  a.PolicyId,
		Status:    entity.ApplicationStatus(a.Status),
		Notes:     a.Notes,
		AppliedAt: a.AppliedAt,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (m *ApplicationMapper) ToModel(a *entity.Application) *model.Application {
	if a == nil {
		return nil
	}
	return &model.Application{
		Id:        a.Id,
		UserId:    a.UserId,
		PolicyId:  a.PolicyId,
		Status:    string(a.Status),
		Notes:     a.Notes,
		AppliedAt: a.AppliedAt,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (m *ApplicationMapper) ToEntities(apps []*model.Application) []*entity.Application {
	entities := make([]*entity.Application, len(apps))
	for i, a := range apps {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
