package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParsePair(t *testing.T) {
	pair, err := GeneratePair(42, 1)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, 1, claims.Role)
}

func TestParseAccessRejectsGarbage(t *testing.T) {
	_, err := ParseAccess("not.a.token")
	require.Error(t, err)
}

func TestRefreshRotatesPair(t *testing.T) {
	pair, err := GeneratePair(42, 0)
	require.NoError(t, err)

	// refresh token 不能当 access 用
	_, err = ParseAccess(pair.RefreshToken)
	require.Error(t, err)

	renewed, err := Refresh(pair.RefreshToken)
	require.NoError(t, err)
	claims, err := ParseAccess(renewed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
}
