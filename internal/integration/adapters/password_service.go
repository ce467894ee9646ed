// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/receipt-ledger/backend/internal/application/adapter"
)

const (
	// passwordHashCost is the bcrypt cost for account passwords.
	passwordHashCost = 12
	// passwordMinLength is the shortest accepted account password.
	passwordMinLength = 8
)

// passwordService stores account passwords as bcrypt hashes.
type passwordService struct{}

// NewPasswordService creates a new password service instance.
func NewPasswordService() adapter.PasswordService {
	return &passwordService{}
}

// HashPassword hashes a plain text password with bcrypt.
func (s *passwordService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plain text password against its stored hash.
func (s *passwordService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePasswordStrength rejects passwords under the minimum length.
func (s *passwordService) ValidatePasswordStrength(password string) error {
	if len(password) < passwordMinLength {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}
