package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dojo-events/core/constants"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims carries the caller identity issued by the member directory.
type TokenClaims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	Scope   string `json:"scope"`
	jwt.RegisteredClaims
}

func GenerateToken(secret, email string, isAdmin bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Email:   strings.ToLower(strings.TrimSpace(email)),
		IsAdmin: isAdmin,
		Scope:   constants.ScopeTokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        GenerateID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

var ErrTokenExpired = errors.New("token expired")

func ValidateAndParseToken(secret, token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Email == "" {
		return nil, errors.New("token has no email")
	}
	if claims.Scope != constants.ScopeTokenAccess {
		return nil, errors.New("token scope is not access")
	}
	return claims, nil
}
