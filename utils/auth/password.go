package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordMismatch = errors.New("password does not match")

const (
	// DefaultCost is the bcrypt cost used when none is configured.
	DefaultCost = 12

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6
)

// HashPassword hashes the password with bcrypt at the given cost. A cost of
// zero falls back to DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a bcrypt hash against a candidate password.
func VerifyPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// IsPasswordValid reports whether the password meets the minimum length.
func IsPasswordValid(password string) bool {
	return len(password) >= MinPasswordLength
}
