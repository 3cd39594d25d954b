package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims embeds the public identity into the signed credential. The token
// identifier (jti) doubles as the session key for revocation.
type Claims struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
}

// NewTokenManager builds a token helper using the provided secret.
func NewTokenManager(secretKey string) *TokenManager {
	return &TokenManager{
		secretKey: []byte(secretKey),
		ttl:       24 * time.Hour,
	}
}

// WithTTL allows customising the expiration duration.
func (tm *TokenManager) WithTTL(ttl time.Duration) *TokenManager {
	if ttl > 0 {
		tm.ttl = ttl
	}
	return tm
}

// TTL exposes the configured credential lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue creates a signed, time-bounded credential for the identity.
func (tm *TokenManager) Issue(identity Identity) (string, *Claims, error) {
	if len(tm.secretKey) == 0 {
		return "", nil, errors.New("token secret is empty")
	}

	now := time.Now()
	claims := &Claims{
		UserID: identity.ID,
		Name:   identity.Name,
		Email:  identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secretKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify validates the signature and time bounds, returning the embedded
// claims.
func (tm *TokenManager) Verify(tokenString string) (*Claims, error) {
	if len(tm.secretKey) == 0 {
		return nil, errors.New("token secret is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
