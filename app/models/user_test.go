package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIssueAPIKey(t *testing.T) {
	u := &User{ID: 1}

	key, err := u.IssueAPIKey()
	require.NoError(t, err)
	require.NotEmpty(t, key)

	assert.True(t, strings.HasPrefix(key, "ink_"))
	assert.NotEmpty(t, u.APIKeyHash)
	assert.NotEmpty(t, u.APIKeyPrefix)
	assert.NotNil(t, u.APIKeyCreatedAt)
	assert.True(t, u.HasActiveAPIKey())
	assert.Equal(t, HashAPIKey(key), u.APIKeyHash)
}

func TestUserRevokeAPIKey(t *testing.T) {
	u := &User{ID: 99}
	_, err := u.IssueAPIKey()
	require.NoError(t, err)

	u.RevokeAPIKey()

	assert.False(t, u.HasActiveAPIKey())
	assert.Equal(t, "", u.APIKeyHash)
	assert.Equal(t, "", u.APIKeyPrefix)
	assert.NotNil(t, u.APIKeyRevokedAt)
}

func TestCreateUserValidates(t *testing.T) {
	u, err := CreateUser("tester", "tester@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, ROLE_USER, u.Role)
	assert.Equal(t, STATUS_INACTIVE, u.Status)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))

	_, err = CreateUser("x", "not-an-email", "secret123")
	require.Error(t, err)
}
