package auth_test

import (
	"testing"
	"time"

	"github.com/dangerclosesec/tracker/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test_secret", time.Hour)

	token, err := tm.Generate("dev@acme.test")
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "dev@acme.test", claims.Email)
}

func TestTokenRejected(t *testing.T) {
	tm := auth.NewTokenManager("test_secret", time.Hour)

	_, err := tm.Generate("")
	assert.Error(t, err)

	other, err := auth.NewTokenManager("other_secret", time.Hour).Generate("dev@acme.test")
	require.NoError(t, err)
	_, err = tm.Validate(other)
	assert.Error(t, err, "signature from another secret")

	expired, err := auth.NewTokenManager("test_secret", -time.Minute).Generate("dev@acme.test")
	require.NoError(t, err)
	_, err = tm.Validate(expired)
	assert.Error(t, err, "expired token")

	_, err = tm.Validate("not-a-token")
	assert.Error(t, err)
}
