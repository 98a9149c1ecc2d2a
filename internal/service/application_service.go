package service

import (
	"context"
	"errors"
	"time"

	"policfy-be/internal/dto"
	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/pkg/metrics"
	"policfy-be/internal/repository/specification"
	"policfy-be/internal/repository/unitofwork"
	appEvents "policfy-be/pkg/application/events"

	"github.com/google/uuid"
)

type IApplicationService interface {
	Apply(ctx context.Context, caller entity.Caller, req *dto.ApplyRequest) (*dto.ApplicationResponse, error)
	ListForUser(ctx context.Context, caller entity.Caller, userId uuid.UUID) ([]*dto.UserApplicationResponse, error)
	ListAll(ctx context.Context, caller entity.Caller) ([]*dto.AdminApplicationResponse, error)
	UpdateStatus(ctx context.Context, caller entity.Caller, id uuid.UUID, req *dto.UpdateApplicationStatusRequest) (*dto.AdminApplicationResponse, error)
	Cancel(ctx context.Context, caller entity.Caller, id uuid.UUID) error
}

type applicationService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  appEvents.Publisher
	metrics    *metrics.Metrics
	logger     logger.ILogger
}

func NewApplicationService(
	uowFactory unitofwork.RepositoryFactory,
	publisher appEvents.Publisher,
	metrics *metrics.Metrics,
	logger logger.ILogger,
) IApplicationService {
	return &applicationService{
		uowFactory: uowFactory,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
}

var (
	errAdminsOnly          = apperror.New(apperror.ErrForbidden, "Access denied: Admins only")
	errApplicationNotFound = apperror.New(apperror.ErrNotFound, "Application not found")
	errNotApplicationOwner = apperror.New(apperror.ErrForbidden, "You are not authorized to cancel this application")
	errInvalidStatus       = apperror.New(apperror.ErrValidation, "Invalid status. Must be one of: pending, approved, rejected")
)

func errNotPending(status entity.ApplicationStatus) error {
	return apperror.Newf(apperror.ErrInvalidState, "Cannot delete an application that has already been %s", status)
}

// Apply records an application for the caller. The policy is not looked up.
func (s *applicationService) Apply(ctx context.Context, caller entity.Caller, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	defer s.metrics.ObserveOperation("apply", time.Now())

	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	app := &entity.Application{
		Id:        uuid.New(),
		UserId:    caller.UserId,
		PolicyId:  req.PolicyId,
		Status:    entity.ApplicationStatusPending,
		AppliedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uow.ApplicationRepository().Create(ctx, app); err != nil {
		if errors.Is(err, apperror.ErrDuplicateApplication) {
			s.metrics.IncrementDuplicate()
			s.logger.Info("APPLICATION", "Duplicate application rejected", map[string]interface{}{
				"user_id":   caller.UserId.String(),
				"policy_id": req.PolicyId.String(),
			})
		}
		return nil, err
	}

	s.metrics.IncrementSubmitted()
	s.logger.Info("APPLICATION", "Application submitted", map[string]interface{}{
		"application_id": app.Id.String(),
		"user_id":        app.UserId.String(),
		"policy_id":      app.PolicyId.String(),
	})
	s.publisher.PublishSubmitted(ctx, app)

	res := toApplicationResponse(app)
	return &res, nil
}

func (s *applicationService) ListForUser(ctx context.Context, caller entity.Caller, userId uuid.UUID) ([]*dto.UserApplicationResponse, error) {
	defer s.metrics.ObserveOperation("list_for_user", time.Now())

	uow := s.uowFactory.NewUnitOfWork(ctx)

	apps, err := uow.ApplicationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	policies, err := referenceResolver{uow: uow}.policies(ctx, apps)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.UserApplicationResponse, 0, len(apps))
	for _, app := range apps {
		result = append(result, withPolicy(app, policies))
	}
	return result, nil
}

func (s *applicationService) ListAll(ctx context.Context, caller entity.Caller) ([]*dto.AdminApplicationResponse, error) {
	defer s.metrics.ObserveOperation("list_all", time.Now())

	if !caller.IsAdmin() {
		return nil, errAdminsOnly
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	apps, err := uow.ApplicationRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	return s.resolveForAdmin(ctx, uow, apps)
}

// UpdateStatus overwrites the status. Any status may follow any other.
func (s *applicationService) UpdateStatus(ctx context.Context, caller entity.Caller, id uuid.UUID, req *dto.UpdateApplicationStatusRequest) (*dto.AdminApplicationResponse, error) {
	defer s.metrics.ObserveOperation("update_status", time.Now())

	if !caller.IsAdmin() {
		return nil, errAdminsOnly
	}

	status, ok := entity.ParseApplicationStatus(req.Status)
	if !ok {
		return nil, errInvalidStatus
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ApplicationRepository()

	current, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, errApplicationNotFound
	}
	previous := current.Status

	if err := repo.UpdateStatus(ctx, id, status, req.Notes); err != nil {
		return nil, err
	}

	updated, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Cancelled between the write and the re-read.
		return nil, errApplicationNotFound
	}

	s.metrics.IncrementStatusChange(string(status))
	s.logger.Info("APPLICATION", "Application status changed", map[string]interface{}{
		"application_id":  id.String(),
		"previous_status": string(previous),
		"status":          string(status),
		"admin_id":        caller.UserId.String(),
	})
	s.publisher.PublishStatusChanged(ctx, updated, previous)

	resolved, err := s.resolveForAdmin(ctx, uow, []*entity.Application{updated})
	if err != nil {
		return nil, err
	}
	return resolved[0], nil
}

// Cancel deletes the caller's own pending application. The delete is
// conditional on the row still being pending, so a concurrent approval wins.
func (s *applicationService) Cancel(ctx context.Context, caller entity.Caller, id uuid.UUID) error {
	defer s.metrics.ObserveOperation("cancel", time.Now())

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ApplicationRepository()

	app, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if app == nil {
		return errApplicationNotFound
	}

	if !app.IsOwnedBy(caller.UserId) {
		return errNotApplicationOwner
	}

	if !app.Status.IsPending() {
		return errNotPending(app.Status)
	}

	deleted, err := repo.Delete(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: caller.UserId},
		specification.ByStatus{Status: string(entity.ApplicationStatusPending)},
	)
	if err != nil {
		return err
	}

	if deleted == 0 {
		latest, err := repo.FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return err
		}
		if latest == nil {
			return errApplicationNotFound
		}
		return errNotPending(latest.Status)
	}

	s.metrics.IncrementCancelled()
	s.logger.Info("APPLICATION", "Application cancelled", map[string]interface{}{
		"application_id": id.String(),
		"user_id":        caller.UserId.String(),
	})
	s.publisher.PublishCancelled(ctx, app)

	return nil
}

func (s *applicationService) resolveForAdmin(ctx context.Context, uow unitofwork.UnitOfWork, apps []*entity.Application) ([]*dto.AdminApplicationResponse, error) {
	resolver := referenceResolver{uow: uow}

	users, err := resolver.users(ctx, apps)
	if err != nil {
		return nil, err
	}
	policies, err := resolver.policies(ctx, apps)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.AdminApplicationResponse, 0, len(apps))
	for _, app := range apps {
		result = append(result, withSummaries(app, users, policies))
	}
	return result, nil
}
