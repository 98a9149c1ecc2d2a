package service

import (
	"context"

	"policfy-be/internal/dto"
	"policfy-be/internal/entity"
	"policfy-be/internal/repository/specification"
	"policfy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// referenceResolver fetches the users and policies a batch of applications
// point at, one query per table. Missing ids are simply absent from the maps.
type referenceResolver struct {
	uow unitofwork.UnitOfWork
}

func uniqueIds(apps []*entity.Application, pick func(*entity.Application) uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(apps))
	ids := make([]uuid.UUID, 0, len(apps))
	for _, app := range apps {
		id := pick(app)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (r referenceResolver) policies(ctx context.Context, apps []*entity.Application) (map[uuid.UUID]*entity.Policy, error) {
	result := make(map[uuid.UUID]*entity.Policy)
	ids := uniqueIds(apps, func(a *entity.Application) uuid.UUID { return a.PolicyId })
	if len(ids) == 0 {
		return result, nil
	}

	policies, err := r.uow.PolicyRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, p := range policies {
		result[p.Id] = p
	}
	return result, nil
}

func (r referenceResolver) users(ctx context.Context, apps []*entity.Application) (map[uuid.UUID]*entity.User, error) {
	result := make(map[uuid.UUID]*entity.User)
	ids := uniqueIds(apps, func(a *entity.Application) uuid.UUID { return a.UserId })
	if len(ids) == 0 {
		return result, nil
	}

	users, err := r.uow.UserRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.Id] = u
	}
	return result, nil
}

func toApplicationResponse(app *entity.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		Id:        app.Id,
		UserId:    app.UserId,
		PolicyId:  app.PolicyId,
		Status:    string(app.Status),
		Notes:     app.Notes,
		AppliedAt: app.AppliedAt,
		CreatedAt: app.CreatedAt,
		UpdatedAt: app.UpdatedAt,
	}
}

func toPolicyResponse(p *entity.Policy) dto.PolicyResponse {
	return dto.PolicyResponse{
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

func withPolicy(app *entity.Application, policies map[uuid.UUID]*entity.Policy) *dto.UserApplicationResponse {
	res := &dto.UserApplicationResponse{ApplicationResponse: toApplicationResponse(app)}
	if p, ok := policies[app.PolicyId]; ok {
		res.Policy = toPolicyResponse(p)
	} else {
		res.Policy = dto.PolicyResponse{Id: app.PolicyId, Title: entity.UnknownPolicyTitle}
	}
	return res
}

// withSummaries builds the admin projection. Only name/email and
// title/category are copied.
func withSummaries(app *entity.Application, users map[uuid.UUID]*entity.User, policies map[uuid.UUID]*entity.Policy) *dto.AdminApplicationResponse {
	res := &dto.AdminApplicationResponse{ApplicationResponse: toApplicationResponse(app)}

	if u, ok := users[app.UserId]; ok {
		res.User = dto.ApplicantSummary{Name: u.Name, Email: u.Email}
	} else {
		res.User = dto.ApplicantSummary{Name: entity.UnknownUserName}
	}

	if p, ok := policies[app.PolicyId]; ok {
		res.Policy = dto.PolicySummary{Title: p.Title, Category: string(p.Category)}
	} else {
		res.Policy = dto.PolicySummary{Title: entity.UnknownPolicyTitle}
	}

	return res
}
