package mapper

import (
	"policfy-be/internal/entity"
	"policfy-be/internal/model"
)

type PolicyMapper struct{}

func NewPolicyMapper() *PolicyMapper {
	return &PolicyMapper{}
}

func (m *PolicyMapper) ToEntity(p *model.Policy) *entity.Policy {
	if p == nil {
		return nil
	}
	return &entity.Policy{
		Id:          p.Id,
		Title:       p.Title,
		Description: p.Description,
		Premium:     p.Premium,
		Coverage:    p.Coverage,
		Duration:    p.Duration,
		Category:    entity.PolicyCategory(p.Category),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *PolicyMapper) ToModel(p *entity.Policy) *model.Policy {
	if p == nil {
		return nil
	}
	return &model.Policy{
		Id:          p.Id,
		Title:       p.Title,
		Description: p.Description,
		Premium:     p.Premium,
		Coverage:    p.Coverage,
		Duration:    p.Duration,
		Category:    string(p.Category),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *PolicyMapper) ToEntities(policies []*model.Policy) []*entity.Policy {
	entities := make([]*entity.Policy, len(policies))
	for i, p := range policies {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
