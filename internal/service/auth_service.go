package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"policfy-be/internal/dto"
	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/pkg/token"
	"policfy-be/internal/repository/contract"
	"policfy-be/internal/repository/specification"
	"policfy-be/internal/repository/unitofwork"
	adminUser "policfy-be/pkg/admin/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, caller entity.Caller) (*dto.AuthResponse, error)
	// SignInExternal signs in the account owning email, creating a regular
	// user with a random password when none exists.
	SignInExternal(ctx context.Context, name, email string) (*dto.AuthResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	tokens     *token.Manager
	sessions   contract.SessionRepository
	logger     logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	tokens *token.Manager,
	sessions contract.SessionRepository,
	logger logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		tokens:     tokens,
		sessions:   sessions,
		logger:     logger,
	}
}

var (
	errMissingFields      = apperror.New(apperror.ErrValidation, "Please add all fields")
	errInvalidCredentials = apperror.New(apperror.ErrUnauthorized, "Invalid credentials")
)

func toAuthResponse(u *entity.User, accessToken string) *dto.AuthResponse {
	return &dto.AuthResponse{
		Id:          u.Id,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		RedirectUrl: u.RedirectPath(),
		Token:       accessToken,
	}
}

// signIn issues a token and makes its session the only valid one for the user.
func (s *authService) signIn(ctx context.Context, u *entity.User) (*dto.AuthResponse, error) {
	accessToken, sessionId, err := s.tokens.Issue(u.Id, string(u.Role))
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, u.Id, sessionId, s.tokens.TTL()); err != nil {
		return nil, err
	}

	return toAuthResponse(u, accessToken), nil
}

func (s *authService) createUser(ctx context.Context, uow unitofwork.UnitOfWork, name, email, password string) (*entity.User, error) {
	hash, err := adminUser.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.UserRoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, errMissingFields
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.New(apperror.ErrConflict, "User already exists")
	}

	user, err := s.createUser(ctx, uow, name, email, req.Password)
	if err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{"user_id": user.Id.String()})
	return s.signIn(ctx, user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: strings.TrimSpace(req.Email)})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	return s.signIn(ctx, user)
}

func (s *authService) Me(ctx context.Context, caller entity.Caller) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: caller.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.New(apperror.ErrUnauthorized, "Not authorized, user not found")
	}

	return toAuthResponse(user, ""), nil
}

func (s *authService) SignInExternal(ctx context.Context, name, email string) (*dto.AuthResponse, error) {
	if email == "" {
		return nil, apperror.New(apperror.ErrUnauthorized, "Provider did not return an email")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}

	if user == nil {
		password, err := randomPassword()
		if err != nil {
			return nil, err
		}
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		user, err = s.createUser(ctx, uow, name, email, password)
		if err != nil {
			return nil, err
		}
		s.logger.Info("AUTH", "User created from external sign-in", map[string]interface{}{"user_id": user.Id.String()})
	}

	return s.signIn(ctx, user)
}

func randomPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
