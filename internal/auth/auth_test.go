package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentfit/talentfit/internal/models"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.GenerateToken("ana@example.com", models.RoleCandidate)
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.Equal(t, models.RoleCandidate, claims.Role)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.GenerateToken("ana@example.com", models.RoleCandidate)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("one", time.Hour).GenerateToken("ana@example.com", models.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenIssuer_NoSecret(t *testing.T) {
	issuer := NewTokenIssuer("", time.Hour)

	_, err := issuer.GenerateToken("ana@example.com", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrSecretNotInitialized)

	_, err = issuer.ValidateToken("anything")
	assert.ErrorIs(t, err, ErrSecretNotInitialized)
}

func TestPassword_HashAndVerify(t *testing.T) {
	hash, err := HashPassword("Password123")
	require.NoError(t, err)

	assert.NoError(t, VerifyPassword("Password123", hash))
	assert.Error(t, VerifyPassword("password123", hash))
}

func TestPassword_TruncatesAt72Bytes(t *testing.T) {
	base := strings.Repeat("a", 72)
	hash, err := HashPassword(base + "tail")
	require.NoError(t, err)

	assert.NoError(t, VerifyPassword(base+"different-tail", hash))
}

func TestTruncatePassword_KeepsValidUTF8(t *testing.T) {
	// 71 ASCII bytes followed by a two byte rune crossing the limit
	input := strings.Repeat("a", 71) + "ñ"
	out := truncatePassword(input)

	assert.Equal(t, strings.Repeat("a", 71), out)
}

func TestVerificationCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.NotEqual(t, byte('0'), code[0])
	}

	hash := HashVerificationCode("123456")
	assert.True(t, MatchVerificationCode("123456", hash))
	assert.False(t, MatchVerificationCode("654321", hash))
}
