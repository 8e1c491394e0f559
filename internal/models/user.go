package models

import "time"

type MembershipType string

const (
	MembershipBasic     MembershipType = "basic"
	MembershipPremium   MembershipType = "premium"
	MembershipFamily    MembershipType = "family"
	MembershipStudent   MembershipType = "student"
	MembershipSenior    MembershipType = "senior"
	MembershipCorporate MembershipType = "corporate"
)

func ValidMembershipType(t MembershipType) bool {
	switch t {
	case MembershipBasic, MembershipPremium, MembershipFamily,
		MembershipStudent, MembershipSenior, MembershipCorporate:
		return true
	}
	return false
}

type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusExpired   UserStatus = "expired"
	StatusSuspended UserStatus = "suspended"
)

func ValidUserStatus(s UserStatus) bool {
	switch s {
	case StatusActive, StatusInactive, StatusExpired, StatusSuspended:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentOverdue:
		return true
	}
	return false
}

// User bir tesis üyesidir; giriş hesabı değil (bkz. Account).
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	Email          string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Avatar         string         `gorm:"size:255" json:"avatar"`
	MembershipType MembershipType `gorm:"size:20;not null" json:"membership_type"`
	MembershipFee  *float64       `json:"membership_fee"`
	Status         UserStatus     `gorm:"size:20;not null" json:"status"`
	RFIDTag        string         `gorm:"column:rfid_tag;size:50;uniqueIndex;not null" json:"rfid_tag"`
	MemberSince    time.Time      `json:"member_since"`

	MembershipStart *time.Time    `json:"membership_start"`
	MembershipEnd   *time.Time    `json:"membership_end"`
	NextPaymentDue  *time.Time    `json:"next_payment_due"`
	PaymentStatus   PaymentStatus `gorm:"size:20;not null" json:"payment_status"`
	Notes           string        `gorm:"size:500" json:"notes"`

	PaymentHistory []PaymentRecord `gorm:"foreignKey:UserID" json:"payment_history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
