package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dealhub/internal/auth"
	apperrors "dealhub/internal/errors"
	"dealhub/internal/model"
	"dealhub/internal/repository"
)

const bcryptCost = 10

// AuthService handles sign-up, sign-in and sign-out.
type AuthService interface {
	SignUp(ctx context.Context, name, email, password, role string) (*model.User, string, error)
	SignIn(ctx context.Context, email, password string) (*model.User, string, error)
	SignOut(ctx context.Context, token string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		logger:     logger,
	}
}

// SignUp creates a user with a hashed password and returns a signed identity token.
func (s *authService) SignUp(ctx context.Context, name, email, password, role string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if role == "" {
		role = model.RoleUser
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", apperrors.Conflict("user already exists")
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	_, token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("user signed up",
		zap.Uint("user_id", user.ID),
		zap.String("role", user.Role))

	return user, token, nil
}

// SignIn verifies credentials and returns a fresh identity token. Unknown
// email and wrong password produce the same error.
func (s *authService) SignIn(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", apperrors.Unauthenticated("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.Unauthenticated("invalid email or password")
	}

	_, token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("user signed in", zap.Uint("user_id", user.ID))

	return user, token, nil
}

// SignOut revokes the token so it stays unusable until its natural expiry.
// An unparsable token is not an error; the caller clears the cookie either way.
func (s *authService) SignOut(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil || claims.ID == "" {
		return nil
	}

	if err := s.tokenStore.RevokeToken(ctx, claims.ID, s.jwtService.TTL()); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Info("user signed out", zap.Uint("user_id", claims.UserID))
	return nil
}
