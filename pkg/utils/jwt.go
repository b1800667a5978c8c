package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	jwtKey []byte
	jwtTTL = 15 * time.Minute
)

var ErrTokenInvalid = errors.New("invalid or expired token")

// ConfigureJWT must be called once at startup, before any token is issued or
// verified. The TTL is also the cookie max-age so the token never outlives
// its cookie.
func ConfigureJWT(secret string, ttl time.Duration) {
	jwtKey = []byte(secret)
	if ttl > 0 {
		jwtTTL = ttl
	}
}

func TokenTTL() time.Duration {
	return jwtTTL
}

func CreateToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(jwtTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ValidateToken verifies signature and expiry and returns the subject user id.
func ValidateToken(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return jwtKey, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return userID, nil
}
