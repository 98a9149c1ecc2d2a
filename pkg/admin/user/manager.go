package user

import (
	"context"
	"strings"
	"time"

	"policfy-be/internal/dto"
	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/repository/specification"
	"policfy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	errUserNotFound     = apperror.New(apperror.ErrNotFound, "User not found")
	errUserExists       = apperror.New(apperror.ErrConflict, "User already exists")
	errDeleteSuperAdmin = apperror.New(apperror.ErrForbidden, "Cannot delete super admin user")
	errDeleteOwnAccount = apperror.New(apperror.ErrForbidden, "You cannot delete your own account")
)

// Manager handles the admin-only user operations.
type Manager struct {
	logger          logger.ILogger
	superAdminEmail string
}

// NewManager creates a user manager. The account with superAdminEmail can
// never be deleted.
func NewManager(logger logger.ILogger, superAdminEmail string) *Manager {
	return &Manager{
		logger:          logger,
		superAdminEmail: superAdminEmail,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateAdmin adds an admin account named after the local part of its email.
func (m *Manager) CreateAdmin(ctx context.Context, uow unitofwork.UnitOfWork, req dto.CreateAdminRequest) (*entity.User, error) {
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errUserExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	name, _, _ := strings.Cut(req.Email, "@")
	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Name:         name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         entity.UserRoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	m.logger.Info("ADMIN", "Created admin user", map[string]interface{}{
		"userId": user.Id.String(),
		"email":  user.Email,
	})
	return user, nil
}

// EnsureSuperAdmin creates the super admin account unless one with that email
// already exists. It reports whether an account was created.
func (m *Manager) EnsureSuperAdmin(ctx context.Context, uow unitofwork.UnitOfWork, password string) (bool, error) {
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: m.superAdminEmail})
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	now := time.Now()
	err = uow.UserRepository().Create(ctx, &entity.User{
		Id:           uuid.New(),
		Name:         "Super Admin",
		Email:        m.superAdminEmail,
		PasswordHash: hash,
		Role:         entity.UserRoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, err
	}

	m.logger.Info("ADMIN", "Seeded super admin", map[string]interface{}{"email": m.superAdminEmail})
	return true, nil
}

// Update applies the non-nil fields of req.
func (m *Manager) Update(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, req dto.AdminUpdateUserRequest) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errUserNotFound
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != "" {
		user.Email = *req.Email
	}
	if req.Role != nil && *req.Role != "" {
		user.Role = entity.UserRole(*req.Role)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes a user. The super admin and the acting admin themself are
// protected.
func (m *Manager) Delete(ctx context.Context, uow unitofwork.UnitOfWork, actorId, userId uuid.UUID) error {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return errUserNotFound
	}

	if strings.EqualFold(user.Email, m.superAdminEmail) {
		return errDeleteSuperAdmin
	}
	if actorId == userId {
		return errDeleteOwnAccount
	}

	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return err
	}

	m.logger.Info("ADMIN", "Deleted User", map[string]interface{}{
		"userId": userId.String(),
		"by":     actorId.String(),
	})
	return nil
}
