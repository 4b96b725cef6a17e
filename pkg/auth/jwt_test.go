package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("64f1c0ffee0000000000abcd")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1c0ffee0000000000abcd", userID)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateTokenWithTTL("64f1c0ffee0000000000abcd", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := ValidateToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := GenerateToken("64f1c0ffee0000000000abcd")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = ValidateToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWithoutSubjectRejected(t *testing.T) {
	token, err := GenerateToken("")
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
}
