package utils

import (
	"errors"  // Error wrapping
	"fmt"     // Error formatting
	"strconv" // Subject claim encoding
	"time"    // Time for token expiration

	"drops_api/internal/domain"

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// JWT Claims
type Claims struct {
	UserID               uint `json:"user_id"` // Custom claim for user ID
	jwt.RegisteredClaims      // Standard JWT claims, Subject carries the user ID too
}

// TokenService issues and validates HS256 access tokens
type TokenService struct {
	secret []byte           // Signing key
	ttl    time.Duration    // Default access token lifetime
	now    func() time.Time // Clock, replaceable in tests
}

// NewTokenService creates a TokenService with the given key and default lifetime
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of s that reads time from now
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	c := *s
	c.now = now
	return &c
}

// TTL returns the default access token lifetime
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// IssueToken creates a signed token for userID that expires at expiresAt
func (s *TokenService) IssueToken(userID uint, expiresAt time.Time) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(s.secret)                        // Sign the token with the secret
}

// IssueAccessToken creates a token for userID with the default lifetime
func (s *TokenService) IssueAccessToken(userID uint) (string, error) {
	return s.IssueToken(userID, s.now().Add(s.ttl))
}

// ParseToken validates a token string and returns the user ID from its subject.
// Every failure is reported as domain.ErrUnauthenticated.
func (s *TokenService) ParseToken(tokenStr string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("%w: token expired", domain.ErrUnauthenticated)
		}
		return 0, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid subject", domain.ErrUnauthenticated)
	}
	return uint(id), nil
}
