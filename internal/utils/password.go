package utils

import (
	"fmt"

	"drops_api/internal/domain"

	"golang.org/x/crypto/bcrypt" // Password hashing
)

// Password length bounds in bytes. bcrypt only reads the first 72 bytes,
// so longer secrets are rejected instead of being silently truncated.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

// ValidatePassword checks the byte length bounds of a plaintext password
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, MaxPasswordBytes)
	}
	return nil
}

// HashPassword validates and bcrypt-hashes a plaintext password
func HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
