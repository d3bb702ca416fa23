package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	userDomain "github.com/havenstay/service-rental/internal/domain/user"
	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/platform/auth"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,notblank,email"`
	Password string `json:"password" binding:"required,notblank"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,notblank,email"`
	Password string `json:"password" binding:"required,notblank"`
}

// UserDTO is the public representation of an account.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionDTO is returned by register and login.
type SessionDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// AuthService registers accounts and issues session tokens.
type AuthService struct {
	users  userDomain.UserRepository
	jwt    *auth.JWTManager
	logger *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users userDomain.UserRepository, jwt *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, logger: logger}
}

// Register creates a guest account and signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*SessionDTO, error) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperror.NewConflictError("Email already in use")
	} else if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	u, err := userDomain.NewUser(req.Name, req.Email, hash)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID().String()))
	return s.session(u)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*SessionDTO, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}
	if !auth.VerifyPassword(u.PasswordHash(), req.Password) {
		return nil, apperror.NewUnauthorizedError("Invalid credentials")
	}
	return s.session(u)
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, caller auth.Principal) (*UserDTO, error) {
	if caller.IsZero() {
		return nil, apperror.NewUnauthorizedError("Unauthorized")
	}
	u, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

func (s *AuthService) session(u *userDomain.User) (*SessionDTO, error) {
	token, err := s.jwt.GenerateToken(u.ID(), u.Role())
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return &SessionDTO{User: toUserDTO(u), Token: token}, nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		Role:      u.Role(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}
