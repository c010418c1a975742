package auth

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past 72 bytes
const maxPasswordBytes = 72

// truncatePassword cuts the password to 72 bytes without leaving a partial UTF-8 sequence
func truncatePassword(password string) string {
	if len(password) <= maxPasswordBytes {
		return password
	}
	b := []byte(password[:maxPasswordBytes])
	for len(b) > 0 && !utf8.Valid(b) {
		b = b[:len(b)-1]
	}
	return string(b)
}

// HashPassword hashes a plain text password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(truncatePassword(password)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plain text password with a bcrypt hash
func VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(truncatePassword(password)))
}
