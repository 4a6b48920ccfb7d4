package services

import (
	"context"
	"errors"
	"strings"

	"pandayo-coffee-api/internal/adapters/persistence/models"
	"pandayo-coffee-api/internal/adapters/persistence/repositories"
	"pandayo-coffee-api/internal/core/domain"
	"pandayo-coffee-api/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles profile management and the admin user listing.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfileInput represents update profile input.
type UpdateProfileInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// ChangePasswordInput represents change password input.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateProfile persists profile changes scoped to the caller's own record.
// The role column is untouched here: profile updates can never escalate
// privileges.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrPersistence
	}

	if email := strings.TrimSpace(input.Email); email != "" && email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, domain.ErrPersistence
		}
		if exists {
			return nil, domain.ErrDuplicateEmail
		}
		user.Email = email
	}

	if username := strings.TrimSpace(input.Username); username != "" {
		user.Username = username
	}

	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, domain.ErrPersistence
	}

	return user.ToResponse(), nil
}

// ChangePassword verifies the current password before re-hashing and
// persisting the new one. A wrong current password leaves the stored hash
// untouched. The new password must pass the same complexity policy as
// registration.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return domain.ErrPersistence
	}

	if !password.Verify(input.CurrentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	if !password.MeetsPolicy(input.NewPassword) {
		return domain.ErrValidation
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return domain.ErrPersistence
	}

	return nil
}

// ListUsers returns the public view of every user ordered by ascending ID.
// The admin gate lives in the middleware, not here.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, domain.ErrPersistence
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}
