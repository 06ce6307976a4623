package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/golang-jwt/jwt"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	Role        domain.Role `json:"role"`
	Permissions []string    `json:"permissions"`
	jwt.StandardClaims
}

func CreateJWTToken(profile domain.Profile, jwtSecretKey string, ttl time.Duration) (string, error) {
	claims := Claims{
		Role:        profile.Role,
		Permissions: profile.Permissions,
		StandardClaims: jwt.StandardClaims{
			Subject:   profile.Sub,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecretKey))
}

// ParseJWTToken accepts a raw token or a "Bearer <token>" header value.
func ParseJWTToken(raw string, jwtSecretKey string) (domain.Profile, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return domain.Profile{}, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return domain.Profile{}, ErrInvalidToken
	}

	return domain.Profile{
		Sub:         claims.Subject,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}, nil
}
