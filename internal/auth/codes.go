package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/talentfit/talentfit/internal/assert"
)

// CodeLength is the number of digits of a verification code
const CodeLength = 6

// GenerateVerificationCode returns a random six digit code (100000-999999)
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)
	assert.Length(code, CodeLength)
	return code, nil
}

// HashVerificationCode returns the hex sha256 of a code
func HashVerificationCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	hash := hex.EncodeToString(sum[:])
	assert.Length(hash, sha256.Size*2)
	return hash
}

// MatchVerificationCode compares a code with a stored hash in constant time
func MatchVerificationCode(code, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashVerificationCode(code)), []byte(hash)) == 1
}
