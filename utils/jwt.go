package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT mints an HS256 token carrying the user ID, signed with the
// given secret.
func GenerateJWT(userID uint, expireDays int, secret string) (string, error) {
	if expireDays <= 0 {
		expireDays = 7
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(time.Duration(expireDays) * 24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(secret))
}
