package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Small parameters keep the argon2 tests fast; production uses defaultParams.
var testParams = Argon2Params{
	Time:    1,
	Memory:  8 * 1024,
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPasswordWithParams("s3cret-pass", testParams)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(hash), "$argon2id$v=19$"))

	ok, err := VerifyPassword("s3cret-pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-pass", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHashesAreSalted(t *testing.T) {
	first, err := HashPasswordWithParams("same-password", testParams)
	require.NoError(t, err)
	second, err := HashPasswordWithParams("same-password", testParams)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("whatever", []byte("not-a-hash"))
	assert.Error(t, err)

	_, err = VerifyPassword("whatever", []byte("$bcrypt$v=19$t=1,m=8,p=1$c2FsdA$aGFzaA"))
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user-1", "session-1", "customer", time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user-1", "session-1", "customer", time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "other-secret")
	assert.Error(t, err)
}

func TestAccessTokenRejectsExpired(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user-1", "session-1", "customer", -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "secret")
	assert.Error(t, err)
}

func TestRefreshTokenHashMatches(t *testing.T) {
	token, hash, err := GenerateRefreshToken(64)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, hash, HashRefreshToken(token))
	assert.NotEqual(t, hash, HashRefreshToken(token+"x"))
}

func TestResourceSignature(t *testing.T) {
	sig := SignResource("secret", "doc-1", "owner/doc-1/file.pdf")

	assert.True(t, VerifyResource("secret", sig, "doc-1", "owner/doc-1/file.pdf"))
	assert.False(t, VerifyResource("secret", sig, "doc-2", "owner/doc-1/file.pdf"))
	assert.False(t, VerifyResource("secret", sig, "doc-1", "owner/doc-2/file.pdf"))
	assert.False(t, VerifyResource("other", sig, "doc-1", "owner/doc-1/file.pdf"))
}
