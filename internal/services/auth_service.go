package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kuesioner-tools/survey_backend/internal/auth"
	"github.com/kuesioner-tools/survey_backend/internal/models"
	"github.com/kuesioner-tools/survey_backend/internal/repository"
)

// AuthService handles administrator authentication
// #INTEGRATION_POINT: Used by auth handler for login and password management
type AuthService interface {
	// Login verifies credentials and returns a token pair
	Login(ctx context.Context, email, password string) (*auth.TokenPair, *models.User, error)

	// RefreshAccessToken exchanges a refresh token for a new token pair
	RefreshAccessToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error)

	// ChangePassword replaces the user's password after verifying the current one
	ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error

	// GetUser retrieves an active user by ID
	GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

// authService implements AuthService
type authService struct {
	userRepo   repository.UserRepository
	jwtService auth.JWTService
}

// NewAuthService creates a new auth service instance
// #IMPLEMENTATION_DECISION: Constructor injection for testability
func NewAuthService(userRepo repository.UserRepository, jwtService auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login verifies credentials and returns a token pair
// #SECURITY_CONCERN: Unknown email and wrong password yield the same error
func (s *authService) Login(ctx context.Context, email, password string) (*auth.TokenPair, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, nil, models.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, models.ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, nil, models.ErrInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)
	return pair, user, nil
}

// RefreshAccessToken exchanges a refresh token for a new token pair
func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, models.ErrUnauthorized
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return pair, nil
}

// ChangePassword replaces the user's password after verifying the current one
func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(currentPassword) {
		return models.ErrInvalidCredentials
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// GetUser retrieves an active user by ID
func (s *authService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, models.ErrUserInactive
	}
	return user, nil
}
