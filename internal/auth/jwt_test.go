package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "dramaverse-test",
		Duration: time.Hour,
	}
}

func testUser() *User {
	return &User{
		ID:           "u-1",
		Username:     "mina",
		Email:        "mina@example.com",
		IsAdmin:      true,
		TokenVersion: 3,
	}
}

func TestSignAndParse(t *testing.T) {
	ts := testTokenService()

	token, exp, err := ts.Sign(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "mina", claims.Username)
	assert.Equal(t, "mina@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, "dramaverse-test", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	ts := testTokenService()
	token, _, err := ts.Sign(testUser())
	require.NoError(t, err)

	other := ts
	other.Secret = []byte("different-secret")
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	ts := testTokenService()
	ts.Duration = -time.Minute

	token, _, err := ts.Sign(testUser())
	require.NoError(t, err)

	_, err = ts.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	ts := testTokenService()
	_, err := ts.Parse("not.a.token")
	assert.Error(t, err)
}
