package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"gymtag-backend/internal/config"
	"gymtag-backend/internal/database"
	"gymtag-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret-test-secret-test-secret-1234",
	}
}

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}))

	database.DB = db
}

func setupApp(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()
	setupTestDB(t)
	cfg := testConfig()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Post("/api/auth/register", RegisterHandler(cfg))
	app.Post("/api/auth/register-admin", RegisterAdminHandler(cfg))
	app.Post("/api/auth/login", LoginHandler(cfg))

	protected := app.Group("", JWTMiddleware(cfg))
	protected.Get("/api/auth/me", MeHandler())
	protected.Get("/api/auth/user/:userId", GetAccountHandler())

	admin := protected.Group("", RequireRole(models.RoleAdmin))
	admin.Get("/api/admin-only", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	return app, cfg
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       uint               `json:"id"`
		Username string             `json:"username"`
		Email    string             `json:"email"`
		Role     models.AccountRole `json:"role"`
	} `json:"user"`
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func getWithToken(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func registerAccount(t *testing.T, app *fiber.App, path, username, email, password string) authResponse {
	t.Helper()
	resp := postJSON(t, app, path, fiber.Map{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out authResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRegisterCreatesUserRole(t *testing.T) {
	app, cfg := setupApp(t)

	out := registerAccount(t, app, "/api/auth/register", "emma", "emma@example.com", "secret123")

	assert.Equal(t, models.RoleUser, out.User.Role)
	assert.NotEmpty(t, out.Token)

	// Token claims doğru hesaba işaret etmeli
	token, err := jwt.ParseWithClaims(out.Token, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(*JWTCustomClaims)
	assert.Equal(t, out.User.ID, claims.AccountID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegisterDuplicate(t *testing.T) {
	app, _ := setupApp(t)

	registerAccount(t, app, "/api/auth/register", "emma", "emma@example.com", "secret123")

	resp := postJSON(t, app, "/api/auth/register", fiber.Map{
		"username": "emma2",
		"email":    "emma@example.com",
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/register", fiber.Map{
		"username": "emma",
		"email":    "other@example.com",
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := setupApp(t)

	resp := postJSON(t, app, "/api/auth/register", fiber.Map{
		"username": "eksik",
		"email":    "",
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegisterAdminBootstrapOnce(t *testing.T) {
	app, _ := setupApp(t)

	out := registerAccount(t, app, "/api/auth/register-admin", "admin", "admin@example.com", "secret123")
	assert.Equal(t, models.RoleAdmin, out.User.Role)

	// İkinci admin bootstrap'ı reddedilir
	resp := postJSON(t, app, "/api/auth/register-admin", fiber.Map{
		"username": "admin2",
		"email":    "admin2@example.com",
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app, _ := setupApp(t)
	registerAccount(t, app, "/api/auth/register", "james", "james@example.com", "secret123")

	resp := postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "James@Example.com", // büyük/küçük harf duyarsız
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out authResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.Token)

	resp = postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "james@example.com",
		"password": "yanlis",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "yok@example.com",
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddleware(t *testing.T) {
	app, _ := setupApp(t)
	out := registerAccount(t, app, "/api/auth/register", "sophia", "sophia@example.com", "secret123")

	// Token yok
	resp := getWithToken(t, app, "/api/auth/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Bozuk token
	resp = getWithToken(t, app, "/api/auth/me", "bozuk-token")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Geçerli token
	resp = getWithToken(t, app, "/api/auth/me", out.Token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var me map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "sophia@example.com", me["email"])
}

func TestRequireRole(t *testing.T) {
	app, _ := setupApp(t)

	admin := registerAccount(t, app, "/api/auth/register-admin", "admin", "admin@example.com", "secret123")
	user := registerAccount(t, app, "/api/auth/register", "uye", "uye@example.com", "secret123")

	resp := getWithToken(t, app, "/api/admin-only", user.Token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = getWithToken(t, app, "/api/admin-only", admin.Token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetAccountSelfOrAdmin(t *testing.T) {
	app, _ := setupApp(t)

	admin := registerAccount(t, app, "/api/auth/register-admin", "admin", "admin@example.com", "secret123")
	a := registerAccount(t, app, "/api/auth/register", "ali", "ali@example.com", "secret123")
	b := registerAccount(t, app, "/api/auth/register", "veli", "veli@example.com", "secret123")

	// Kendi hesabı
	resp := getWithToken(t, app, fiberPath(a.User.ID), a.Token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Başkasının hesabı
	resp = getWithToken(t, app, fiberPath(b.User.ID), a.Token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Admin herkesi görebilir
	resp = getWithToken(t, app, fiberPath(b.User.ID), admin.Token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func fiberPath(id uint) string {
	return fmt.Sprintf("/api/auth/user/%d", id)
}
