package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/talentfit/talentfit/internal/models"
)

// DefaultTokenTTL matches the access token lifetime of the UserAPI
const DefaultTokenTTL = 30 * time.Minute

var ErrSecretNotInitialized = errors.New("JWT secret not initialized")

// JWTClaims represents the JWT token claims. The subject is the user's e-mail.
type JWTClaims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates HS256 access tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GenerateToken creates a new JWT token for a user
func (i *TokenIssuer) GenerateToken(email string, role models.Role) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrSecretNotInitialized
	}

	now := i.now()
	claims := JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateToken validates a JWT token and returns the claims
func (i *TokenIssuer) ValidateToken(tokenString string) (*JWTClaims, error) {
	if len(i.secret) == 0 {
		return nil, ErrSecretNotInitialized
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}
