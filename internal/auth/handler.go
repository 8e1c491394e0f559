package auth

import (
	"fmt"
	"strings"

	"gymtag-backend/internal/config"
	"gymtag-backend/internal/database"
	"gymtag-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func accountResponse(a *models.Account) fiber.Map {
	return fiber.Map{
		"id":       a.ID,
		"username": a.Username,
		"email":    a.Email,
		"role":     a.Role,
	}
}

// POST /api/auth/register
// Kayıt her zaman "user" rolüyle açılır; rol istemciden alınmaz.
func RegisterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Username = strings.TrimSpace(body.Username)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Username == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kullanıcı adı, email ve şifre zorunlu")
		}

		var count int64
		if err := database.DB.Model(&models.Account{}).
			Where("email = ? OR username = ?", body.Email, body.Username).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap kontrolü yapılamadı")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu email veya kullanıcı adı zaten kayıtlı")
		}

		account, err := createAccount(body.Username, body.Email, body.Password, models.RoleUser)
		if err != nil {
			return err
		}

		token, err := GenerateToken(cfg.JWTSecret, account)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"token": token,
			"user":  accountResponse(account),
		})
	}
}

// POST /api/auth/register-admin
// Bootstrap ucu: sistemde admin hesabı yokken ilk admini açar, sonrası 403.
// Gömülü demo admin yerine bu akış kullanılıyor.
func RegisterAdminHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Username = strings.TrimSpace(body.Username)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Username == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kullanıcı adı, email ve şifre zorunlu")
		}

		var count int64
		if err := database.DB.Model(&models.Account{}).
			Where("role = ?", models.RoleAdmin).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap kontrolü yapılamadı")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Zaten bir admin hesabı var")
		}

		account, err := createAccount(body.Username, body.Email, body.Password, models.RoleAdmin)
		if err != nil {
			return err
		}

		token, err := GenerateToken(cfg.JWTSecret, account)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"token": token,
			"user":  accountResponse(account),
		})
	}
}

func createAccount(username, email, password string, role models.AccountRole) (*models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
	}

	account := models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := database.DB.Create(&account).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Hesap oluşturulamadı")
	}
	return &account, nil
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var account models.Account
		if err := database.DB.Where("email = ?", body.Email).First(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		token, err := GenerateToken(cfg.JWTSecret, &account)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  accountResponse(&account),
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountIDVal := c.Locals(CtxAccountIDKey)
		accountID, ok := accountIDVal.(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Hesap bilgisi alınamadı")
		}

		var account models.Account
		if err := database.DB.First(&account, accountID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		return c.JSON(accountResponse(&account))
	}
}

// GET /api/auth/user/:userId
// Admin her hesabı görebilir, kullanıcı sadece kendisini.
func GetAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("userId"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Hesap id geçersiz")
		}

		role, _ := c.Locals(CtxAccountRoleKey).(models.AccountRole)
		selfID, _ := c.Locals(CtxAccountIDKey).(uint)
		if role != models.RoleAdmin && selfID != id {
			return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
		}

		var account models.Account
		if err := database.DB.First(&account, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		resp := accountResponse(&account)
		resp["created_at"] = account.CreatedAt
		return c.JSON(resp)
	}
}
