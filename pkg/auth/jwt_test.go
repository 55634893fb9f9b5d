package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newValidator(t *testing.T, issuer string, audience ...string) *JWTValidator {
	t.Helper()
	v, err := NewJWTValidator(JWTConfig{SecretKey: testSecret, Issuer: issuer, Audience: audience})
	require.NoError(t, err)
	return v
}

func TestNewJWTValidator_RequiresSecret(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
}

func TestJWTValidator_RoundTrip(t *testing.T) {
	v := newValidator(t, "statdash", "dashboard")

	token, err := v.GenerateToken("user-1", "a@example.com", []string{"viewer"}, time.Hour)
	require.NoError(t, err)

	claims, err := v.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, []string{"viewer"}, claims.Roles)
}

func TestJWTValidator_Rejects(t *testing.T) {
	v := newValidator(t, "statdash", "dashboard")

	expired, err := v.GenerateToken("user-1", "", nil, -time.Minute)
	require.NoError(t, err)
	_, err = v.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other := newValidator(t, "statdash", "dashboard")
	other.secretKey = []byte("a-completely-different-secret-key")
	forged, err := other.GenerateToken("user-1", "", nil, time.Hour)
	require.NoError(t, err)
	_, err = v.ValidateToken(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	wrongIssuer, err := newValidator(t, "someone-else", "dashboard").GenerateToken("user-1", "", nil, time.Hour)
	require.NoError(t, err)
	_, err = v.ValidateToken(wrongIssuer)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	wrongAudience, err := newValidator(t, "statdash", "billing").GenerateToken("user-1", "", nil, time.Hour)
	require.NoError(t, err)
	_, err = v.ValidateToken(wrongAudience)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	noSubject, err := v.GenerateToken("", "", nil, time.Hour)
	require.NoError(t, err)
	_, err = v.ValidateToken(noSubject)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = v.ValidateToken("   ")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = v.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTValidator_RejectsOtherAlgorithms(t *testing.T) {
	v := newValidator(t, "")
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = v.ValidateToken(signed)

	assert.ErrorIs(t, err, ErrInvalidToken)
}
