// Package utils holds small helpers shared by the API layer.
package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/irapidev/xml2json/comm/config"
)

// Claims is the JWT payload carried by API tokens.
type Claims struct {
	UserName string `json:"username"`
	jwt.RegisteredClaims
}

// GetToken strips the "Bearer " prefix from an Authorization header value.
// Returns "" when the header is empty or malformed.
func GetToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(header)
}

// GenerateToken mints a signed token for the given user.
func GenerateToken(username string) (string, error) {
	auth := config.Get().Auth
	if auth.Secret == "" {
		return "", errors.New("auth secret not configured")
	}
	claims := Claims{
		UserName: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(auth.Expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(auth.Secret))
}

// ParseToken validates a token string and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	auth := config.Get().Auth
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(auth.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
