// Package backend holds the business logic of the reference inventory API.
package backend

import (
	"errors"
	"strings"

	"go-inventory-console/internal/model"
	"go-inventory-console/internal/repository"
	"go-inventory-console/pkg/jwt"

	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
)

type AuthService interface {
	Login(username, password string) (*model.LoginResult, error)
	ValidateToken(tokenString string) (*jwt.Claims, error)
	ResetPassword(username, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *authService) Login(username, password string) (*model.LoginResult, error) {
	// 1. Find user by username
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Sign token carrying the role
	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.String("username", user.Username), zap.Error(err))
		return nil, errors.New("failed to generate token")
	}

	s.logger.Info("User logged in", zap.String("username", user.Username), zap.String("role", user.Role))
	return &model.LoginResult{Token: token, Role: user.Role}, nil
}

// ValidateToken checks the signature and that the user still exists and is
// active.
func (s *authService) ValidateToken(tokenString string) (*jwt.Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// The stored role wins over a stale claim.
	claims.Role = user.Role
	return claims, nil
}

func (s *authService) ResetPassword(username, newPassword string) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return ErrUserNotFound
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	return s.userRepo.UpdatePassword(user.ID, user.Password)
}
