package auth

import (
	"time"

	"gymtag-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	AccountID uint               `json:"account_id"`
	Email     string             `json:"email"`
	Role      models.AccountRole `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, account *models.Account) (string, error) {
	claims := &JWTCustomClaims{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)), // 7 gün
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
