package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3nh4-f0rte")
	require.NoError(t, err)
	require.NoError(t, CheckPassword(hash, "s3nh4-f0rte"))
	require.Error(t, CheckPassword(hash, "errada"))
}

func TestSignAndVerify(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tok, jti, exp, err := Sign("user-123")
	require.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.False(t, exp.IsZero())

	claims, err := Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, jti, claims.JWTID)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	tok, _, _, err := Sign("user-123")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = Verify(tok)
	require.Error(t, err)
}
