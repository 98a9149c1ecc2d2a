package service

import (
	"context"

	"policfy-be/internal/dto"
	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/repository/contract"
	"policfy-be/internal/repository/specification"
	"policfy-be/internal/repository/unitofwork"
	adminUser "policfy-be/pkg/admin/user"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, caller entity.Caller) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, caller entity.Caller) ([]*dto.UserResponse, error)
	CreateAdmin(ctx context.Context, caller entity.Caller, req *dto.CreateAdminRequest) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, caller entity.Caller, userId uuid.UUID, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, caller entity.Caller, userId uuid.UUID) error
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	manager    *adminUser.Manager
	sessions   contract.SessionRepository
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, manager *adminUser.Manager, sessions contract.SessionRepository) IUserService {
	return &userService{
		uowFactory: uowFactory,
		manager:    manager,
		sessions:   sessions,
	}
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:        u.Id,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func (s *userService) GetProfile(ctx context.Context, caller entity.Caller) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: caller.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.New(apperror.ErrNotFound, "User not found")
	}
	return toUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, caller entity.Caller) ([]*dto.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, errAdminsOnly
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(u))
	}
	return res, nil
}

func (s *userService) CreateAdmin(ctx context.Context, caller entity.Caller, req *dto.CreateAdminRequest) (*dto.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, errAdminsOnly
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.manager.CreateAdmin(ctx, uow, *req)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateUser(ctx context.Context, caller entity.Caller, userId uuid.UUID, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, errAdminsOnly
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.manager.Update(ctx, uow, userId, *req)
	if err != nil {
		return nil, err
	}

	// A new password signs the user out everywhere.
	if req.Password != nil && *req.Password != "" {
		if err := s.sessions.Delete(ctx, userId); err != nil {
			return nil, err
		}
	}
	return toUserResponse(user), nil
}

// DeleteUser removes the account. Its applications stay and later resolve
// to the unknown-user placeholder.
func (s *userService) DeleteUser(ctx context.Context, caller entity.Caller, userId uuid.UUID) error {
	if !caller.IsAdmin() {
		return errAdminsOnly
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.manager.Delete(ctx, uow, caller.UserId, userId); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, userId)
}
