package handlers

import (
	"errors"
	"time"

	"pandayo-coffee-api/internal/config"
	"pandayo-coffee-api/internal/core/domain"
	"pandayo-coffee-api/internal/core/services"
	"pandayo-coffee-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// refreshCookieName is the cookie carrying the refresh token. The cookie is
// httpOnly and SameSite=Strict; the token never appears in a response body.
const refreshCookieName = "refreshToken"

// AuthHandler handles the authentication endpoints.
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// TokenResponse is the login/refresh success body.
type TokenResponse struct {
	Token string `json:"token"`
}

// Register handles user registration
// @Summary Register a new user
// @Description Create an account. Requested roles outside the self-assignable set are stored as "user".
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, response.CodeValidation, "Invalid request body")
	}

	if input.Username == "" || input.Email == "" || input.Password == "" {
		return response.BadRequest(c, response.CodeValidation, "Username, email and password are required")
	}

	user, err := h.authService.Register(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, response.CodeValidation,
				"Password must be 8-25 chars, include uppercase, lowercase, number, and symbol.")
		case errors.Is(err, domain.ErrDuplicateEmail):
			return response.BadRequest(c, response.CodeDuplicateEmail, "Email already exists")
		default:
			return response.InternalServerError(c, response.CodeStorage, "Failed to register user")
		}
	}

	return c.JSON(user)
}

// Login handles user login
// @Summary Login
// @Description Verify credentials, return an access token and set the refresh-token cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} response.ErrorBody
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, response.CodeValidation, "Invalid request body")
	}

	result, err := h.authService.Login(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.BadRequest(c, response.CodeInvalidCredentials, "Invalid credentials")
		default:
			return response.InternalServerError(c, response.CodeStorage, "Login failed")
		}
	}

	h.setRefreshCookie(c, result.RefreshToken)

	return c.JSON(TokenResponse{Token: result.AccessToken})
}

// RefreshToken handles access-token refresh
// @Summary Refresh the access token
// @Description Mint a new access token from the refresh-token cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} TokenResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /refresh-token [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies(refreshCookieName)
	if refreshToken == "" {
		return response.Unauthorized(c, response.CodeTokenMissing, "No refresh token provided.")
	}

	accessToken, err := h.authService.RefreshAccessToken(c.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidToken):
			return response.Forbidden(c, response.CodeTokenInvalid, "Invalid or expired refresh token.")
		default:
			return response.InternalServerError(c, response.CodeStorage, "Failed to refresh token")
		}
	}

	return c.JSON(TokenResponse{Token: accessToken})
}

// setRefreshCookie sets the refresh-token cookie per the cookie contract:
// httpOnly, SameSite=Strict, secure in production, 7-day max-age.
func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.cfg.JWT.RefreshTokenTTL / time.Second),
		Secure:   h.cfg.IsProd(),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
