package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pandayo-coffee-api/internal/adapters/http/middleware"
	"pandayo-coffee-api/internal/adapters/persistence/models"
	"pandayo-coffee-api/internal/config"
	"pandayo-coffee-api/internal/pkg/jwt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:          testSecret,
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.CustomErrorHandler,
	})
	Setup(app, db, cfg)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, mutate ...func(*http.Request)) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for _, m := range mutate {
		m(req)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func register(t *testing.T, app *fiber.App, username, email, password, role string) *http.Response {
	t.Helper()
	return doJSON(t, app, http.MethodPost, "/api/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"role":     role,
	})
}

func login(t *testing.T, app *fiber.App, email, password string) (string, *http.Cookie) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)

	var refreshCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			refreshCookie = c
		}
	}
	require.NotNil(t, refreshCookie, "login must set the refreshToken cookie")

	return body.Token, refreshCookie
}

func bearer(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := register(t, app, "alice", "alice@x.com", "Sup3r!Pass", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view models.UserResponse
	decodeBody(t, resp, &view)
	require.NotZero(t, view.ID)
	require.Equal(t, "alice", view.Username)
	require.Equal(t, "user", view.Role)
	require.False(t, view.CreatedAt.IsZero())
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	app, db := newTestApp(t)

	resp := register(t, app, "alice", "alice@x.com", "weak", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, "VALIDATION_ERROR", body.Code)

	var count int64
	db.Model(&models.User{}).Count(&count)
	require.Zero(t, count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, db := newTestApp(t)

	resp := register(t, app, "alice", "alice@x.com", "Sup3r!Pass", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = register(t, app, "impostor", "alice@x.com", "An0ther!Pw", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, "DUPLICATE_EMAIL", body.Code)

	var count int64
	db.Model(&models.User{}).Where("email = ?", "alice@x.com").Count(&count)
	require.Equal(t, int64(1), count)
}

func TestLoginSetsRefreshCookie(t *testing.T) {
	app, _ := newTestApp(t)

	resp := register(t, app, "alice", "alice@x.com", "Sup3r!Pass", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token, cookie := login(t, app, "alice@x.com", "Sup3r!Pass")

	claims, err := jwt.ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "user", claims.Role)

	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	require.Equal(t, 7*24*60*60, cookie.MaxAge)

	// The refresh token never carries role or username.
	refreshClaims, err := jwt.ValidateRefreshToken(cookie.Value, testSecret)
	require.NoError(t, err)
	require.Equal(t, claims.UserID, refreshClaims.UserID)
}

func TestLoginFailures(t *testing.T) {
	app, _ := newTestApp(t)

	resp := register(t, app, "alice", "alice@x.com", "Sup3r!Pass", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, creds := range []map[string]string{
		{"email": "alice@x.com", "password": "Wr0ng!Pass"},
		{"email": "nobody@x.com", "password": "Sup3r!Pass"},
	} {
		resp := doJSON(t, app, http.MethodPost, "/api/login", creds)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		decodeBody(t, resp, &body)
		require.Equal(t, "INVALID_CREDENTIALS", body.Code)
		require.Equal(t, "Invalid credentials", body.Error)
	}
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/api/me", "/api/users", "/api/admin-only"} {
		resp := doJSON(t, app, http.MethodGet, path, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "path %s", path)

		var body struct {
			Code string `json:"code"`
		}
		decodeBody(t, resp, &body)
		require.Equal(t, "TOKEN_MISSING", body.Code)
	}
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	app, _ := newTestApp(t)

	expired, err := jwt.GenerateAccessToken(1, "alice", "user", testSecret, -time.Minute)
	require.NoError(t, err)

	for _, token := range []string{"garbage", expired} {
		resp := doJSON(t, app, http.MethodGet, "/api/me", nil, bearer(token))
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body struct {
			Code string `json:"code"`
		}
		decodeBody(t, resp, &body)
		require.Equal(t, "TOKEN_INVALID", body.Code)
	}
}

func TestAdminGate(t *testing.T) {
	app, db := newTestApp(t)

	resp := register(t, app, "alice", "alice@x.com", "Sup3r!Pass", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	userToken, _ := login(t, app, "alice@x.com", "Sup3r!Pass")

	// A fully valid non-admin token is still rejected on admin routes.
	resp = doJSON(t, app, http.MethodGet, "/api/users", nil, bearer(userToken))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, "ADMIN_ONLY", body.Code)
	require.Equal(t, "Admin access only", body.Error)

	// Promote alice directly in the store; the change takes effect on the
	// next login, not on the already-issued token.
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "alice@x.com").Update("role", "admin").Error)

	resp = doJSON(t, app, http.MethodGet, "/api/users", nil, bearer(userToken))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken, _ := login(t, app, "alice@x.com", "Sup3r!Pass")
	resp = doJSON(t, app, http.MethodGet, "/api/users", nil, bearer(adminToken))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []models.UserResponse
	decodeBody(t, resp, &users)
	require.Len(t, users, 1)

	resp = doJSON(t, app, http.MethodGet, "/api/admin-only", nil, bearer(adminToken))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var welcome struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &welcome)
	require.Equal(t, "Welcome, admin!", welcome.Message)
}

func TestRefreshTokenEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := register(t, app, "alice", "alice@x.com", "Sup3r!Pass", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, cookie := login(t, app, "alice@x.com", "Sup3r!Pass")

	original, err := jwt.ValidateAccessToken(token, testSecret)
	require.NoError(t, err)

	// No cookie → 401.
	resp = doJSON(t, app, http.MethodPost, "/api/refresh-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Tampered cookie → 403.
	resp = doJSON(t, app, http.MethodPost, "/api/refresh-token", nil, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: cookie.Value + "x"})
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Valid cookie → new access token for the same user.
	resp = doJSON(t, app, http.MethodPost, "/api/refresh-token", nil, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: cookie.Value})
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)

	refreshed, err := jwt.ValidateAccessToken(body.Token, testSecret)
	require.NoError(t, err)
	require.Equal(t, original.UserID, refreshed.UserID)
	require.Equal(t, original.Username, refreshed.Username)
	require.Equal(t, original.Role, refreshed.Role)
}

func TestProfileEndpoints(t *testing.T) {
	app, db := newTestApp(t)

	resp := register(t, app, "alice", "alice@x.com", "Sup3r!Pass", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := login(t, app, "alice@x.com", "Sup3r!Pass")

	// GET /me echoes the validated claims.
	resp = doJSON(t, app, http.MethodGet, "/api/me", nil, bearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		UserID   uint   `json:"userId"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	decodeBody(t, resp, &me)
	require.Equal(t, "alice", me.Username)
	require.Equal(t, "user", me.Role)
	require.NotZero(t, me.UserID)

	// PUT /update-profile.
	resp = doJSON(t, app, http.MethodPut, "/api/update-profile", map[string]string{
		"username":   "alice2",
		"email":      "alice2@x.com",
		"avatar_url": "https://cdn.x.com/alice.png",
	}, bearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		Message string              `json:"message"`
		User    models.UserResponse `json:"user"`
	}
	decodeBody(t, resp, &updated)
	require.Equal(t, "Profile updated successfully", updated.Message)
	require.Equal(t, "alice2", updated.User.Username)

	// PUT /change-password with a wrong current password never mutates the
	// stored hash.
	resp = doJSON(t, app, http.MethodPut, "/api/change-password", map[string]string{
		"currentPassword": "Wr0ng!Pass",
		"newPassword":     "N3w!Passwd",
	}, bearer(token))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/api/change-password", map[string]string{
		"currentPassword": "Sup3r!Pass",
		"newPassword":     "N3w!Passwd",
	}, bearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var changed struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &changed)
	require.Equal(t, "Password changed successfully.", changed.Message)

	var count int64
	db.Model(&models.User{}).Where("email = ?", "alice2@x.com").Count(&count)
	require.Equal(t, int64(1), count)
}

func TestEndToEndRoleAllowListing(t *testing.T) {
	app, _ := newTestApp(t)

	// Registering with role "admin" from untrusted input stores "user".
	resp := register(t, app, "alice", "alice@x.com", "Sup3r!Pass", "admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view models.UserResponse
	decodeBody(t, resp, &view)
	require.Equal(t, "user", view.Role)

	token, _ := login(t, app, "alice@x.com", "Sup3r!Pass")

	claims, err := jwt.ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, "user", claims.Role)

	resp = doJSON(t, app, http.MethodGet, "/api/users", nil, bearer(token))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
