package users

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gymtag-backend/internal/attendance"
	"gymtag-backend/internal/audit"
	"gymtag-backend/internal/auth"
	"gymtag-backend/internal/database"
	"gymtag-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	Avatar         string                `json:"avatar"`
	MembershipType models.MembershipType `json:"membership_type"`
	MembershipFee  *float64              `json:"membership_fee"`
	Status         models.UserStatus     `json:"status"`
	RFIDTag        string                `json:"rfid_tag"`
	MemberSince    *string               `json:"member_since"` // "2006-01-02", boşsa bugün
	NextPaymentDue *string               `json:"next_payment_due"`
	Notes          string                `json:"notes"`
}

type UpdateUserRequest struct {
	Name           *string                `json:"name"`
	Email          *string                `json:"email"`
	Avatar         *string                `json:"avatar"`
	MembershipType *models.MembershipType `json:"membership_type"`
	MembershipFee  *float64               `json:"membership_fee"`
	Status         *models.UserStatus     `json:"status"`
	RFIDTag        *string                `json:"rfid_tag"`
	PaymentStatus  *models.PaymentStatus  `json:"payment_status"`
	NextPaymentDue *string                `json:"next_payment_due"`
	Notes          *string                `json:"notes"`
}

type UserResponse struct {
	models.User
	TotalHours float64 `json:"total_hours"`
}

func userResponse(u *models.User) (UserResponse, error) {
	total, err := attendance.TotalHours(u.ID)
	if err != nil {
		return UserResponse{}, fiber.NewError(fiber.StatusInternalServerError, "Toplam süre hesaplanamadı")
	}
	return UserResponse{User: *u, TotalHours: total}, nil
}

// ui-avatars ile isimden varsayılan avatar üret
func defaultAvatar(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=0D8ABC&color=fff",
		strings.ReplaceAll(strings.TrimSpace(name), " ", "+"))
}

// Kart bilgisi girilmemişse yeni bir RFID etiketi üretilir; admin sonradan
// gerçek kart numarasıyla değiştirebilir.
func newRFIDTag() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// -------------------------------------------------
// GET /api/users
// -------------------------------------------------
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("name asc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üyeler listelenemedi")
		}

		resp := make([]UserResponse, 0, len(users))
		for i := range users {
			r, err := userResponse(&users[i])
			if err != nil {
				return err
			}
			resp = append(resp, r)
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/users/:id
// -------------------------------------------------
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := findUser(c.Params("id"))
		if err != nil {
			return err
		}

		if err := database.DB.Preload("PaymentHistory").First(user, user.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üye yüklenemedi")
		}

		resp, err := userResponse(user)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/users/rfid/:tag
// Okuyucudan gelen kart numarasıyla üye bulur; giriş/çıkış ekranı için
// üyenin şu an içeride olup olmadığını da döner.
// -------------------------------------------------
func FindUserByRFIDHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tag := strings.TrimSpace(c.Params("tag"))
		if tag == "" {
			return fiber.NewError(fiber.StatusBadRequest, "RFID etiketi zorunlu")
		}

		var user models.User
		if err := database.DB.Where("rfid_tag = ?", tag).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Üye bulunamadı")
		}

		resp, err := userResponse(&user)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"user":          resp,
			"is_checked_in": attendance.HasOpenSession(user.ID),
		})
	}
}

// -------------------------------------------------
// POST /api/users  (sadece admin)
// -------------------------------------------------
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.RFIDTag = strings.TrimSpace(body.RFIDTag)

		if body.Name == "" || body.Email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim ve email zorunlu")
		}

		if body.MembershipType == "" {
			body.MembershipType = models.MembershipBasic
		}
		if !models.ValidMembershipType(body.MembershipType) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz üyelik tipi")
		}

		if body.Status == "" {
			body.Status = models.StatusActive
		}
		if !models.ValidUserStatus(body.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz üye durumu")
		}

		if body.RFIDTag == "" {
			body.RFIDTag = newRFIDTag()
		}

		var count int64
		if err := database.DB.Model(&models.User{}).
			Where("email = ? OR rfid_tag = ?", body.Email, body.RFIDTag).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üye kontrolü yapılamadı")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu email veya RFID etiketi zaten kayıtlı")
		}

		memberSince := time.Now()
		if body.MemberSince != nil && *body.MemberSince != "" {
			d, err := time.Parse("2006-01-02", *body.MemberSince)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "member_since formatı geçersiz, 'YYYY-MM-DD' olmalı")
			}
			memberSince = d
		}

		var nextDue *time.Time
		if body.NextPaymentDue != nil && *body.NextPaymentDue != "" {
			d, err := time.Parse("2006-01-02", *body.NextPaymentDue)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "next_payment_due formatı geçersiz, 'YYYY-MM-DD' olmalı")
			}
			nextDue = &d
		}

		avatar := body.Avatar
		if avatar == "" {
			avatar = defaultAvatar(body.Name)
		}

		user := models.User{
			Name:           body.Name,
			Email:          body.Email,
			Avatar:         avatar,
			MembershipType: body.MembershipType,
			MembershipFee:  body.MembershipFee,
			Status:         body.Status,
			RFIDTag:        body.RFIDTag,
			MemberSince:    memberSince,
			NextPaymentDue: nextDue,
			PaymentStatus:  models.PaymentPending,
			Notes:          body.Notes,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üye oluşturulamadı")
		}

		writeUserAudit(c, &user, models.AuditActionCreate,
			fmt.Sprintf("Üye eklendi: %s (%s)", user.Name, user.RFIDTag), nil, &user)

		resp, err := userResponse(&user)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// -------------------------------------------------
// PUT /api/users/:id  (sadece admin)
// -------------------------------------------------
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := findUser(c.Params("id"))
		if err != nil {
			return err
		}
		before := *user

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "İsim boş olamaz")
			}
			user.Name = name
		}

		if body.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*body.Email))
			if email == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Email boş olamaz")
			}
			var count int64
			if err := database.DB.Model(&models.User{}).
				Where("email = ? AND id <> ?", email, user.ID).
				Count(&count).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Üye kontrolü yapılamadı")
			}
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "Bu email zaten kayıtlı")
			}
			user.Email = email
		}

		if body.RFIDTag != nil {
			tag := strings.TrimSpace(*body.RFIDTag)
			if tag == "" {
				return fiber.NewError(fiber.StatusBadRequest, "RFID etiketi boş olamaz")
			}
			var count int64
			if err := database.DB.Model(&models.User{}).
				Where("rfid_tag = ? AND id <> ?", tag, user.ID).
				Count(&count).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Üye kontrolü yapılamadı")
			}
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "Bu RFID etiketi zaten kayıtlı")
			}
			user.RFIDTag = tag
		}

		if body.MembershipType != nil {
			if !models.ValidMembershipType(*body.MembershipType) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz üyelik tipi")
			}
			user.MembershipType = *body.MembershipType
		}

		if body.Status != nil {
			if !models.ValidUserStatus(*body.Status) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz üye durumu")
			}
			user.Status = *body.Status
		}

		if body.PaymentStatus != nil {
			if !models.ValidPaymentStatus(*body.PaymentStatus) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ödeme durumu")
			}
			user.PaymentStatus = *body.PaymentStatus
		}

		if body.NextPaymentDue != nil {
			if *body.NextPaymentDue == "" {
				user.NextPaymentDue = nil
			} else {
				d, err := time.Parse("2006-01-02", *body.NextPaymentDue)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "next_payment_due formatı geçersiz, 'YYYY-MM-DD' olmalı")
				}
				user.NextPaymentDue = &d
			}
		}

		if body.MembershipFee != nil {
			user.MembershipFee = body.MembershipFee
		}
		if body.Avatar != nil {
			user.Avatar = *body.Avatar
		}
		if body.Notes != nil {
			user.Notes = *body.Notes
		}

		if err := database.DB.Save(user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üye güncellenemedi")
		}

		writeUserAudit(c, user, models.AuditActionUpdate,
			fmt.Sprintf("Üye güncellendi: %s", user.Name), &before, user)

		resp, err := userResponse(user)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// DELETE /api/users/:id  (sadece admin)
// Üyeyle birlikte tüm yoklama ve ödeme kayıtları da silinir.
// -------------------------------------------------
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := findUser(c.Params("id"))
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", user.ID).
				Delete(&models.AttendanceRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", user.ID).
				Delete(&models.PaymentRecord{}).Error; err != nil {
				return err
			}
			return tx.Delete(user).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üye silinemedi")
		}

		writeUserAudit(c, user, models.AuditActionDelete,
			fmt.Sprintf("Üye silindi: %s (%s)", user.Name, user.RFIDTag), user, nil)

		return c.JSON(fiber.Map{"message": "Üye silindi"})
	}
}

func findUser(idParam string) (*models.User, error) {
	var id uint
	if _, err := fmt.Sscan(idParam, &id); err != nil || id == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Üye id geçersiz")
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Üye bulunamadı")
	}
	return &user, nil
}

func writeUserAudit(c *fiber.Ctx, user *models.User, action models.AuditAction, desc string, before, after any) {
	accountID, _ := c.Locals(auth.CtxAccountIDKey).(uint)

	var account models.Account
	accountName := ""
	if err := database.DB.First(&account, accountID).Error; err == nil {
		accountName = account.Username
	}

	if err := audit.WriteLog(audit.LogOptions{
		AccountID:   accountID,
		AccountName: accountName,
		EntityType:  "user",
		EntityID:    user.ID,
		Action:      action,
		Description: desc,
		Before:      before,
		After:       after,
	}); err != nil {
		// Log hatası kritik değil
		log.Printf("Audit log yazılamadı: %v", err)
	}
}
