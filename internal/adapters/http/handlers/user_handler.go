package handlers

import (
	"errors"

	"pandayo-coffee-api/internal/adapters/http/middleware"
	"pandayo-coffee-api/internal/core/domain"
	"pandayo-coffee-api/internal/core/services"
	"pandayo-coffee-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile and user-management endpoints.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// identityView is the claims echo returned by /me and /admin-only.
type identityView struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Me returns the caller's own claims
// @Summary Current identity
// @Description Echo the validated access-token claims; no store lookup
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} identityView
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, username, role, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, response.CodeTokenMissing, "Token missing")
	}

	return c.JSON(identityView{
		UserID:   userID,
		Username: username,
		Role:     role.String(),
	})
}

// UpdateProfile updates the caller's profile
// @Summary Update profile
// @Description Update username, email and avatar for the authenticated user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /update-profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, _, _, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, response.CodeTokenMissing, "Token missing")
	}

	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, response.CodeValidation, "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			return response.BadRequest(c, response.CodeDuplicateEmail, "Email already exists")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, response.CodeStorage, "Failed to update profile")
		}
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// ChangePassword changes the caller's password
// @Summary Change password
// @Description Verify the current password, then store a hash of the new one
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Current and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /change-password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, _, _, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, response.CodeTokenMissing, "Token missing")
	}

	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, response.CodeValidation, "Invalid request body")
	}

	if err := h.userService.ChangePassword(c.Context(), userID, &input); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.BadRequest(c, response.CodeInvalidCredentials, "Incorrect current password")
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, response.CodeValidation,
				"Password must be 8-25 chars, include uppercase, lowercase, number, and symbol.")
		default:
			return response.InternalServerError(c, response.CodeStorage, "Failed to change password")
		}
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully."})
}

// AdminWelcome is the admin-gated welcome endpoint
// @Summary Admin welcome
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Router /admin-only [get]
func (h *UserHandler) AdminWelcome(c *fiber.Ctx) error {
	userID, username, role, ok := middleware.Identity(c)
	if !ok {
		return response.Unauthorized(c, response.CodeTokenMissing, "Token missing")
	}

	return c.JSON(fiber.Map{
		"message": "Welcome, admin!",
		"user": identityView{
			UserID:   userID,
			Username: username,
			Role:     role.String(),
		},
	})
}

// ListUsers lists every user (admin only)
// @Summary List users
// @Description All users' public fields ordered by ascending id
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserResponse
// @Failure 403 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.Context())
	if err != nil {
		return response.InternalServerError(c, response.CodeStorage, "Failed to fetch users")
	}

	return c.JSON(users)
}
