package auth

import (
	"fmt"
	"time"
)

// DefaultTokenTTL is how long an access token stays valid.
const DefaultTokenTTL = 4 * time.Hour

// TokenClaims is the identity carried by an access token.
type TokenClaims struct {
	UserID    int64
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies stateless access tokens.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
//
// VerifyToken fails with ErrMalformedToken, ErrExpiredToken or ErrInvalidToken.
type TokenService interface {
	CreateToken(userID int64, email string) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// NewTokenService builds the token service named by the TOKEN_FORMAT setting.
func NewTokenService(format string, jwtSecret, pasetoKey []byte, ttl time.Duration) (TokenService, error) {
	switch format {
	case "", "jwt":
		return NewJWTService(jwtSecret, ttl)
	case "paseto":
		return NewPasetoService(pasetoKey, ttl)
	default:
		return nil, fmt.Errorf("unknown token format %q", format)
	}
}
