package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"pandayo-coffee-api/internal/adapters/persistence/models"
	"pandayo-coffee-api/internal/adapters/persistence/repositories"
	"pandayo-coffee-api/internal/config"
	"pandayo-coffee-api/internal/core/domain"
	"pandayo-coffee-api/internal/pkg/jwt"
	"pandayo-coffee-api/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService orchestrates registration, login and token refresh.
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// RegisterInput represents registration input.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginInput represents login input.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the issued tokens. The refresh token goes into an
// httpOnly cookie; only the access token belongs in a response body.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
}

// Register validates the password policy, allow-lists the requested role,
// hashes the password and persists the record. The returned view never
// contains the password hash.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	if !password.MeetsPolicy(input.Password) {
		return nil, domain.ErrValidation
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	// Best-effort pre-check for a friendlier error. The unique index on
	// email remains the correctness guarantee; a losing race surfaces as
	// gorm.ErrDuplicatedKey below.
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrPersistence
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         domain.NormalizeRequestedRole(input.Role).String(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, domain.ErrPersistence
	}

	log.Printf("✅ User registered: %s [%s]", user.Username, user.Role)

	return user.ToResponse(), nil
}

// Login verifies credentials and issues an access/refresh token pair. The
// unknown-email and wrong-password cases return the same error, and a dummy
// hash comparison runs when the lookup misses so the two paths cost the
// same.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			password.Verify(input.Password, password.DummyDigest)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.ErrPersistence
	}

	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		s.cfg.JWT.Secret,
		s.cfg.JWT.RefreshTokenTTL,
	)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshAccessToken verifies a refresh token taken from the cookie and
// mints a new access token. The user record is re-fetched so the new token
// carries the full, current {userId, username, role} claim set rather than
// the refresh token's bare userId.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.ErrMissingToken
	}

	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.Secret)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", domain.ErrPersistence
	}

	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return "", err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Username)

	return accessToken, nil
}
