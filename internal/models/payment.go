package models

import "time"

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodOther    PaymentMethod = "other"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentRecord üyeliği uzatan tek bir ödemedir. Kayıt sonrası değişmez;
// güncelleme/silme ucu yoktur.
type PaymentRecord struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	UserID       uint          `gorm:"index;not null" json:"user_id"`
	Amount       float64       `gorm:"not null" json:"amount"`
	Date         time.Time     `gorm:"not null" json:"date"`
	Method       PaymentMethod `gorm:"size:20;not null" json:"method"`
	Notes        string        `gorm:"size:255" json:"notes"`
	NextDueAfter *time.Time    `json:"next_due_after"` // bu ödeme sonrası hesaplanan vade

	CreatedAt time.Time `json:"created_at"`
}
