package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSecret []byte

// SetJWTSecret configures the signing key for session tokens. Must be
// called once at startup before any token is issued or validated.
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// SessionClaims are the claims carried by a session token. The jti
// (RegisteredClaims.ID) is registered in Redis; a token is only valid
// while that registration exists.
type SessionClaims struct {
	AuthUserID string `json:"uid"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateSessionToken issues a signed session token for the given auth
// user and returns the token together with its jti.
func GenerateSessionToken(authUserID uuid.UUID, email string, ttl time.Duration) (string, string, error) {
	jti := uuid.New().String()
	now := time.Now()
	claims := SessionClaims{
		AuthUserID: authUserID.String(),
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   authUserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// ValidateSessionToken parses and verifies a session token signature and
// expiry. Redis session liveness is checked separately by the caller.
func ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" || claims.AuthUserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
