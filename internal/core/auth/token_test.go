package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueVerify(t *testing.T) {
	tm := NewTokenManager("test-secret")

	token, err := tm.Issue(Identity{UserID: "u-1", Name: "Budi", Role: RoleUser})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.UserID)
	assert.Equal(t, "Budi", id.Name)
	assert.Equal(t, RoleUser, id.Role)
}

func TestTokenManager_VerifyWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").Issue(Identity{UserID: "u-1", Role: RoleUser})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_VerifyGarbage(t *testing.T) {
	_, err := NewTokenManager("secret").Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
