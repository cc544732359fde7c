package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yourorg/rentledger/internal/domain"
)

// Claims carries the actor identity inside session tokens. RefID is
// omitted for accounts not linked to an owner/tenant record.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	RefID    *int64 `json:"ref_id,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts token claims back into the actor identity threaded
// through the engine.
func (c *Claims) Actor() domain.Actor {
	return domain.Actor{
		UserID:   c.UserID,
		Username: c.Username,
		Role:     domain.Role(c.Role),
		RefID:    c.RefID,
	}
}

// TokenManager signs and validates HS256 session tokens.
type TokenManager struct {
	secret string
	issuer string
}

func NewTokenManager(secret, issuer string) *TokenManager {
	if secret == "" {
		secret = "change-me-in-production"
	}
	if issuer == "" {
		issuer = "rentledger"
	}
	return &TokenManager{secret: secret, issuer: issuer}
}

// GenerateToken issues a session token for an authenticated actor.
func (tm *TokenManager) GenerateToken(actor domain.Actor, expiresIn time.Duration) (string, error) {
	if actor.Username == "" {
		return "", fmt.Errorf("username required")
	}
	now := time.Now()
	claims := Claims{
		UserID:   actor.UserID,
		Username: actor.Username,
		Role:     string(actor.Role),
		RefID:    actor.RefID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			Issuer:    tm.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.secret))
}

// ValidateToken parses and verifies a session token.
func (tm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token failed: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// ExtractToken pulls the bearer token out of an Authorization header.
func ExtractToken(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}
