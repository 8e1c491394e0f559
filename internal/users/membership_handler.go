package users

import (
	"fmt"
	"time"

	"gymtag-backend/internal/database"
	"gymtag-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UpdateMembershipRequest struct {
	MembershipType models.MembershipType `json:"membership_type"`
	Status         models.UserStatus     `json:"status"`
	MembershipFee  *float64              `json:"membership_fee"` // boşsa tipin varsayılanı
	StartDate      string                `json:"start_date"`     // "2006-01-02"
	EndDate        *string               `json:"end_date"`
}

type RecordPaymentRequest struct {
	Amount       float64              `json:"amount"`
	Method       models.PaymentMethod `json:"method"`
	Date         *string              `json:"date"` // boşsa bugün
	Notes        string               `json:"notes"`
	ExtendMonths int                  `json:"extend_months"` // boşsa 1
}

// -------------------------------------------------
// PUT /api/users/:id/membership  (sadece admin)
// Üyelik alanlarını topluca günceller; geçmiş ödeme kayıtlarına dokunmaz.
// -------------------------------------------------
func UpdateMembershipHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := findUser(c.Params("id"))
		if err != nil {
			return err
		}
		before := *user

		var body UpdateMembershipRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if !models.ValidMembershipType(body.MembershipType) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz üyelik tipi")
		}
		if !models.ValidUserStatus(body.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz üye durumu")
		}
		if body.StartDate == "" {
			return fiber.NewError(fiber.StatusBadRequest, "start_date zorunlu")
		}

		start, err := time.Parse("2006-01-02", body.StartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "start_date formatı geçersiz, 'YYYY-MM-DD' olmalı")
		}

		var end *time.Time
		if body.EndDate != nil && *body.EndDate != "" {
			d, err := time.Parse("2006-01-02", *body.EndDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "end_date formatı geçersiz, 'YYYY-MM-DD' olmalı")
			}
			if d.Before(start) {
				return fiber.NewError(fiber.StatusBadRequest, "end_date start_date'ten önce olamaz")
			}
			end = &d
		}

		user.MembershipType = body.MembershipType
		user.Status = body.Status
		user.MembershipStart = &start
		user.MembershipEnd = end

		if body.MembershipFee != nil {
			user.MembershipFee = body.MembershipFee
		} else {
			fee := DefaultFee(body.MembershipType)
			user.MembershipFee = &fee
		}

		if err := database.DB.Save(user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üyelik güncellenemedi")
		}

		writeUserAudit(c, user, models.AuditActionUpdate,
			fmt.Sprintf("Üyelik güncellendi: %s → %s", user.Name, user.MembershipType),
			&before, user)

		resp, err := userResponse(user)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// POST /api/users/:id/payment  (sadece admin)
// Ödemeyi kaydeder, ödeme durumunu "paid" yapar ve vadeyi extend_months ay
// ileri alır (mevcut vadeden; vade yoksa ödeme tarihinden).
// -------------------------------------------------
func RecordPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := findUser(c.Params("id"))
		if err != nil {
			return err
		}
		before := *user

		var body RecordPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tutar 0'dan büyük olmalı")
		}
		if !models.ValidPaymentMethod(body.Method) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ödeme yöntemi (cash|card|transfer|other)")
		}

		if body.ExtendMonths == 0 {
			body.ExtendMonths = 1
		}
		if body.ExtendMonths < 1 || body.ExtendMonths > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "extend_months 1 ile 12 arasında olmalı")
		}

		paymentDate := time.Now()
		if body.Date != nil && *body.Date != "" {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date formatı geçersiz, 'YYYY-MM-DD' olmalı")
			}
			paymentDate = d
		}

		nextDue := NextDueDate(user.NextPaymentDue, paymentDate, body.ExtendMonths)

		payment := models.PaymentRecord{
			UserID:       user.ID,
			Amount:       body.Amount,
			Date:         paymentDate,
			Method:       body.Method,
			Notes:        body.Notes,
			NextDueAfter: &nextDue,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&payment).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Ödeme kaydedilemedi")
			}

			user.PaymentStatus = models.PaymentPaid
			user.NextPaymentDue = &nextDue

			if err := tx.Save(user).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Üye güncellenemedi")
			}
			return nil
		})
		if err != nil {
			return err
		}

		writeUserAudit(c, user, models.AuditActionUpdate,
			fmt.Sprintf("Ödeme alındı: %.2f (%s), yeni vade %s",
				payment.Amount, payment.Method, nextDue.Format("2006-01-02")),
			&before, user)

		resp, err := userResponse(user)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"payment": payment,
			"user":    resp,
		})
	}
}

// -------------------------------------------------
// GET /api/users/payments/status  (sadece admin)
// Üyeleri vade durumuna göre böler: geciken / yaklaşan (7 gün).
// -------------------------------------------------
func PaymentStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("next_payment_due asc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üyeler listelenemedi")
		}

		now := time.Now()
		overdue := make([]UserResponse, 0)
		upcoming := make([]UserResponse, 0)

		for i := range users {
			class := ClassifyPayment(&users[i], now)
			if class == ClassCurrent {
				continue
			}

			r, err := userResponse(&users[i])
			if err != nil {
				return err
			}
			switch class {
			case ClassOverdue:
				overdue = append(overdue, r)
			case ClassUpcoming:
				upcoming = append(upcoming, r)
			}
		}

		return c.JSON(fiber.Map{
			"overdue":  overdue,
			"upcoming": upcoming,
		})
	}
}
