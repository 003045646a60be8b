package video

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenNotConfigured means the provider signing secret is absent.
var ErrTokenNotConfigured = errors.New("video token secret not configured")

// TokenIssuer mints short-lived join tokens the provider's SDK accepts.
type TokenIssuer struct {
	apiKey string
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer signing with the provider secret.
func NewTokenIssuer(apiKey, secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenIssuer{apiKey: apiKey, secret: []byte(secret), ttl: ttl}
}

type joinClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Mint signs a join token for the user.
func (t *TokenIssuer) Mint(userID string) (string, error) {
	if len(t.secret) == 0 {
		return "", ErrTokenNotConfigured
	}
	now := time.Now()
	claims := joinClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.apiKey,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}
