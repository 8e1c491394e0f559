package attendance

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gymtag-backend/internal/audit"
	"gymtag-backend/internal/auth"
	"gymtag-backend/internal/database"
	"gymtag-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AttendanceRequest struct {
	UserID uint `json:"user_id"`
}

// -------------------------------------------------
// GET /api/attendance
// -------------------------------------------------
func ListAttendanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var records []models.AttendanceRecord
		if err := database.DB.Preload("User").
			Order("check_in desc").
			Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıtlar listelenemedi")
		}
		return c.JSON(records)
	}
}

// -------------------------------------------------
// GET /api/attendance/user/:userId
// -------------------------------------------------
func ListUserAttendanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := parseUserIDParam(c)
		if err != nil {
			return err
		}

		var records []models.AttendanceRecord
		if err := database.DB.Where("user_id = ?", userID).
			Order("check_in desc").
			Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıtlar listelenemedi")
		}
		return c.JSON(records)
	}
}

// -------------------------------------------------
// POST /api/attendance/checkin
// -------------------------------------------------
func CheckInHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := parseUserIDBody(c)
		if err != nil {
			return err
		}

		if err := ensureUserExists(userID); err != nil {
			return err
		}

		rec, err := checkIn(userID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// -------------------------------------------------
// POST /api/attendance/checkout
// -------------------------------------------------
func CheckOutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := parseUserIDBody(c)
		if err != nil {
			return err
		}

		rec, err := checkOut(userID)
		if err != nil {
			return err
		}
		return c.JSON(rec)
	}
}

// -------------------------------------------------
// POST /api/attendance/toggle
// RFID okuma akışının ana ucu: açık seans varsa çıkış, yoksa giriş.
// -------------------------------------------------
func ToggleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := parseUserIDBody(c)
		if err != nil {
			return err
		}

		if err := ensureUserExists(userID); err != nil {
			return err
		}

		if HasOpenSession(userID) {
			rec, err := checkOut(userID)
			if err != nil {
				return err
			}
			return c.JSON(fiber.Map{
				"message":     "Çıkış yapıldı",
				"is_check_in": false,
				"attendance":  rec,
			})
		}

		rec, err := checkIn(userID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":     "Giriş yapıldı",
			"is_check_in": true,
			"attendance":  rec,
		})
	}
}

// -------------------------------------------------
// DELETE /api/attendance/:id  (sadece admin)
// -------------------------------------------------
func DeleteAttendanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Kayıt id geçersiz")
		}

		var rec models.AttendanceRecord
		if err := database.DB.First(&rec, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Yoklama kaydı bulunamadı")
		}

		if err := database.DB.Delete(&rec).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt silinemedi")
		}

		writeAttendanceAudit(c, &rec)

		return c.JSON(fiber.Map{"message": "Yoklama kaydı silindi"})
	}
}

// -------------------------------------------------
// GET /api/users/stats/:userId   (userId ya da "all")
// İçinde bulunulan haftanın (Pazar 00:00'dan itibaren) kapanmış seanslarını
// güne göre toplar; her zaman 7 gün döner.
// -------------------------------------------------
func UsageStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		param := c.Params("userId")

		weekStart := StartOfWeek(time.Now())

		dbq := database.DB.Model(&models.AttendanceRecord{}).
			Where("check_in >= ? AND duration IS NOT NULL", weekStart)

		if param != "all" {
			var userID uint
			if _, err := fmt.Sscan(param, &userID); err != nil || userID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Üye id geçersiz")
			}
			dbq = dbq.Where("user_id = ?", userID)
		}

		var records []models.AttendanceRecord
		if err := dbq.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanım verisi toplanamadı")
		}

		return c.JSON(WeeklyBuckets(records))
	}
}

// checkIn açık seans yokken yeni kayıt açar. Aynı anda iki istek gelirse
// transaction içindeki kontrol + partial unique index ikinci yazımı durdurur.
func checkIn(userID uint) (*models.AttendanceRecord, error) {
	rec := models.AttendanceRecord{
		UserID:  userID,
		CheckIn: time.Now(),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := OpenSession(tx, userID); err == nil {
			return fiber.NewError(fiber.StatusConflict, "Üye zaten giriş yapmış durumda")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Seans kontrolü başarısız")
		}
		if err := tx.Create(&rec).Error; err != nil {
			// Kontrolü kıl payı kaçıran eşzamanlı istek partial unique
			// index'e takılır; bu da 409 olarak dönmeli.
			if isUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Üye zaten giriş yapmış durumda")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Giriş kaydı oluşturulamadı")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// isUniqueViolation gorm'un çevirdiği hatayı ve sürücülerin ham unique
// ihlali mesajlarını (postgres 23505, sqlite "UNIQUE constraint failed") yakalar.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// checkOut açık seansı kapatır ve süreyi kalıcı olarak sabitler.
func checkOut(userID uint) (*models.AttendanceRecord, error) {
	var rec *models.AttendanceRecord

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		open, err := OpenSession(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Üyenin açık seansı yok")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Seans kontrolü başarısız")
		}

		now := time.Now()
		duration := DurationHours(open.CheckIn, now)
		open.CheckOut = &now
		open.Duration = &duration

		if err := tx.Save(open).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Çıkış kaydedilemedi")
		}
		rec = open
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func ensureUserExists(userID uint) error {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Üye bulunamadı")
	}
	return nil
}

func parseUserIDBody(c *fiber.Ctx) (uint, error) {
	var body AttendanceRequest
	if err := c.BodyParser(&body); err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
	}
	if body.UserID == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "user_id zorunlu")
	}
	return body.UserID, nil
}

func parseUserIDParam(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("userId"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Üye id geçersiz")
	}
	return id, nil
}

func writeAttendanceAudit(c *fiber.Ctx, rec *models.AttendanceRecord) {
	accountID, _ := c.Locals(auth.CtxAccountIDKey).(uint)

	var account models.Account
	accountName := ""
	if err := database.DB.First(&account, accountID).Error; err == nil {
		accountName = account.Username
	}

	if err := audit.WriteLog(audit.LogOptions{
		AccountID:   accountID,
		AccountName: accountName,
		EntityType:  "attendance",
		EntityID:    rec.ID,
		Action:      models.AuditActionDelete,
		Description: fmt.Sprintf("Yoklama kaydı silindi: üye %d", rec.UserID),
		Before:      rec,
	}); err != nil {
		// Log hatası kritik değil
		log.Printf("Audit log yazılamadı: %v", err)
	}
}
