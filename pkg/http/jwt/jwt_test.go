package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenAndParseToken(t *testing.T) {
	token, err := GenToken("ident-1", "lunabeam", secret, time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "ident-1", claims.IdentityId)
	assert.Equal(t, "lunabeam", claims.Issuer)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenToken("ident-1", "lunabeam", secret, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ParseToken(token, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenToken("ident-1", "lunabeam", secret, time.Hour, time.Now())
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("other"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, jwt.ErrTokenExpired)
}
