package service

import (
	"context"
	"time"

	"policfy-be/internal/dto"
	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/repository/specification"
	"policfy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IPolicyService interface {
	Create(ctx context.Context, caller entity.Caller, req *dto.CreatePolicyRequest) (*dto.PolicyResponse, error)
	List(ctx context.Context) ([]*dto.PolicyResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.PolicyResponse, error)
	Update(ctx context.Context, caller entity.Caller, id uuid.UUID, req *dto.UpdatePolicyRequest) (*dto.PolicyResponse, error)
	Delete(ctx context.Context, caller entity.Caller, id uuid.UUID) error
}

type policyService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewPolicyService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IPolicyService {
	return &policyService{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

var errPolicyNotFound = apperror.New(apperror.ErrNotFound, "Policy not found")

func (s *policyService) Create(ctx context.Context, caller entity.Caller, req *dto.CreatePolicyRequest) (*dto.PolicyResponse, error) {
	if !caller.IsAdmin() {
		return nil, errAdminsOnly
	}

	policy := &entity.Policy{
		Id:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Premium:     req.Premium,
		Coverage:    req.Coverage,
		Duration:    1,
		Category:    entity.PolicyCategoryOther,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if req.Duration != nil {
		policy.Duration = *req.Duration
	}
	if req.Category != "" {
		policy.Category = entity.PolicyCategory(req.Category)
	}
	if req.IsActive != nil {
		policy.IsActive = *req.IsActive
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PolicyRepository().Create(ctx, policy); err != nil {
		return nil, err
	}

	s.logger.Info("POLICY", "Policy created", map[string]interface{}{
		"policy_id": policy.Id.String(),
		"title":     policy.Title,
	})

	res := toPolicyResponse(policy)
	return &res, nil
}

func (s *policyService) List(ctx context.Context) ([]*dto.PolicyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	policies, err := uow.PolicyRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PolicyResponse, 0, len(policies))
	for _, p := range policies {
		item := toPolicyResponse(p)
		res = append(res, &item)
	}
	return res, nil
}

func (s *policyService) Show(ctx context.Context, id uuid.UUID) (*dto.PolicyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	policy, err := uow.PolicyRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, errPolicyNotFound
	}

	res := toPolicyResponse(policy)
	return &res, nil
}

func (s *policyService) Update(ctx context.Context, caller entity.Caller, id uuid.UUID, req *dto.UpdatePolicyRequest) (*dto.PolicyResponse, error) {
	if !caller.IsAdmin() {
		return nil, errAdminsOnly
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	policy, err := uow.PolicyRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, errPolicyNotFound
	}

	if req.Title != nil {
		policy.Title = *req.Title
	}
	if req.Description != nil {
		policy.Description = *req.Description
	}
	if req.Premium != nil {
		policy.Premium = *req.Premium
	}
	if req.Coverage != nil {
		policy.Coverage = *req.Coverage
	}
	if req.Duration != nil {
		policy.Duration = *req.Duration
	}
	if req.Category != nil {
		policy.Category = entity.PolicyCategory(*req.Category)
	}
	if req.IsActive != nil {
		policy.IsActive = *req.IsActive
	}
	policy.UpdatedAt = time.Now()

	if err := uow.PolicyRepository().Update(ctx, policy); err != nil {
		return nil, err
	}

	res := toPolicyResponse(policy)
	return &res, nil
}

// Delete hard-deletes the policy. Applications referencing it are kept.
func (s *policyService) Delete(ctx context.Context, caller entity.Caller, id uuid.UUID) error {
	if !caller.IsAdmin() {
		return errAdminsOnly
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	policy, err := uow.PolicyRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if policy == nil {
		return errPolicyNotFound
	}

	if err := uow.PolicyRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("POLICY", "Policy removed", map[string]interface{}{"policy_id": id.String()})
	return nil
}
