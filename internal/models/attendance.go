package models

import "time"

// AttendanceRecord tek bir giriş/çıkış seansıdır.
// CheckOut null ise seans hâlâ açıktır; Duration ancak çıkışta hesaplanır.
type AttendanceRecord struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	UserID   uint       `gorm:"index;not null" json:"user_id"`
	User     *User      `json:"user,omitempty"`
	CheckIn  time.Time  `gorm:"index;not null" json:"check_in"`
	CheckOut *time.Time `json:"check_out"`
	Duration *float64   `json:"duration"` // saat, 2 ondalık

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
