package services

import (
	"context"
	"errors"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/adapters/persistence/repositories"
	"creditline/internal/config"
	"creditline/internal/pkg/jwt"
	"creditline/internal/pkg/password"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
)

// AuthService handles operator authentication
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Username    string `json:"username"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
}

// Login authenticates an operator and issues an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	token, err := jwt.GenerateAccessToken(user.ID, user.Username, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	logrus.WithField("username", user.Username).Info("operator logged in")

	return &AuthResponse{
		Username:    user.Username,
		Role:        user.Role,
		AccessToken: token,
	}, nil
}

// EnsureAdminUser creates the configured admin account on first start
func (s *AuthService) EnsureAdminUser(ctx context.Context) error {
	exists, err := s.userRepo.ExistsByUsername(ctx, s.cfg.Admin.Username)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := password.Hash(s.cfg.Admin.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Username: s.cfg.Admin.Username,
		Password: hash,
		Role:     "ADMIN",
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	logrus.WithField("username", user.Username).Info("admin user created")
	return nil
}
