package utils

import (
	"time"

	"github.com/golang-jwt/jwt"

	"ytbulkedit/infrastructure/logger"
)

// Issuer is stamped on every API token.
const Issuer = "ytbulkedit"

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken signs an HS256 API token for subject. A zero ttl never expires.
func GenerateToken(subject string, ttl time.Duration, secretKey string) (string, error) {
	now := GetCurrentTime()
	claims := jwt.StandardClaims{
		Issuer:   Issuer,
		Subject:  subject,
		IssuedAt: now.Unix(),
	}
	if ttl != 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}
