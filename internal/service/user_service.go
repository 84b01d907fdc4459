package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"dealhub/internal/auth"
	apperrors "dealhub/internal/errors"
	"dealhub/internal/model"
	"dealhub/internal/repository"
)

// UserUpdate carries the mutable user fields. Empty strings mean "unchanged".
type UserUpdate struct {
	Name  string
	Email string
	Role  string
}

// UserService handles user administration. Reads and updates are allowed to
// the subject user or an admin; role changes are admin only.
type UserService interface {
	ListUsers(ctx context.Context, actor auth.Actor) ([]model.User, error)
	GetUser(ctx context.Context, id uint, actor auth.Actor) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, updates UserUpdate, actor auth.Actor) (*model.User, error)
	DeleteUser(ctx context.Context, id uint, actor auth.Actor) error
}

type userService struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	dealRepo    repository.DealRepository
	// allowDeleteWithRefs permits deleting users that still own listings or
	// participate in deals, leaving dangling references behind.
	allowDeleteWithRefs bool
	logger              *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	dealRepo repository.DealRepository,
	allowDeleteWithRefs bool,
	logger *zap.Logger,
) UserService {
	return &userService{
		userRepo:            userRepo,
		listingRepo:         listingRepo,
		dealRepo:            dealRepo,
		allowDeleteWithRefs: allowDeleteWithRefs,
		logger:              logger,
	}
}

// ListUsers returns all users. Admin only.
func (s *userService) ListUsers(ctx context.Context, actor auth.Actor) ([]model.User, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can list users")
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns one user. Allowed to the subject or an admin.
func (s *userService) GetUser(ctx context.Context, id uint, actor auth.Actor) (*model.User, error) {
	if actor.ID != id && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("not authorized to view this user")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateUser applies a partial update. Allowed to the subject or an admin;
// changing the role requires admin.
func (s *userService) UpdateUser(ctx context.Context, id uint, updates UserUpdate, actor auth.Actor) (*model.User, error) {
	if actor.ID != id && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("not authorized to update this user")
	}
	if updates.Role != "" && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can change roles")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if updates.Email != "" {
		email := strings.ToLower(strings.TrimSpace(updates.Email))
		if email != user.Email {
			existing, err := s.userRepo.FindByEmail(ctx, email)
			if err == nil && existing != nil {
				return nil, apperrors.Conflict("email already in use")
			}
			if err != nil && err != gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("check email: %w", err)
			}
			user.Email = email
		}
	}
	if updates.Name != "" {
		user.Name = strings.TrimSpace(updates.Name)
	}
	if updates.Role != "" {
		user.Role = updates.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("user updated",
		zap.Uint("user_id", id),
		zap.Uint("actor_id", actor.ID))

	return user, nil
}

// DeleteUser removes a user. Allowed to the subject or an admin. Unless the
// service was configured otherwise, deletion is refused while listings or
// deals still reference the user.
func (s *userService) DeleteUser(ctx context.Context, id uint, actor auth.Actor) error {
	if actor.ID != id && actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("not authorized to delete this user")
	}

	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	if !s.allowDeleteWithRefs {
		listingCount, err := s.listingRepo.CountBySeller(ctx, id)
		if err != nil {
			return fmt.Errorf("count listings: %w", err)
		}
		dealCount, err := s.dealRepo.CountByUser(ctx, id)
		if err != nil {
			return fmt.Errorf("count deals: %w", err)
		}
		if listingCount > 0 || dealCount > 0 {
			return apperrors.Conflict("user still has listings or deals")
		}
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted",
		zap.Uint("user_id", id),
		zap.Uint("actor_id", actor.ID))

	return nil
}
