package models

import "time"

type AccountRole string

const (
	RoleAdmin AccountRole = "admin"
	RoleUser  AccountRole = "user"
)

// Account giriş kimliğidir; üye kaydından (User) bilinçli olarak ayrı tutulur.
type Account struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Username     string      `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email        string      `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	Role         AccountRole `gorm:"size:20;not null" json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
}
