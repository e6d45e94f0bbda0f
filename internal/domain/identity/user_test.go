package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with default role", func(t *testing.T) {
		user, err := NewUser("Alice", "Alice@Example.com", "secret123")
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, RoleUser, user.Role)
		assert.False(t, user.IsAdmin())
		assert.NotEqual(t, "secret123", user.PasswordHash)
	})

	t.Run("rejects short username", func(t *testing.T) {
		_, err := NewUser("ab", "a@example.com", "secret123")
		require.Error(t, err)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("alice", "not-an-email", "secret123")
		require.Error(t, err)
	})

	t.Run("rejects password without digits", func(t *testing.T) {
		_, err := NewUser("alice", "a@example.com", "passwordonly")
		require.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("alice", "a@example.com", "ab1")
		require.Error(t, err)
	})
}

func TestUserPassword(t *testing.T) {
	user, err := NewUser("alice", "a@example.com", "secret123")
	require.NoError(t, err)

	t.Run("verify accepts the right password", func(t *testing.T) {
		assert.True(t, user.VerifyPassword("secret123"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("change requires the current password", func(t *testing.T) {
		require.Error(t, user.ChangePassword("wrong", "newpass123"))
		require.NoError(t, user.ChangePassword("secret123", "newpass123"))
		assert.True(t, user.VerifyPassword("newpass123"))
	})
}

func TestUserRole(t *testing.T) {
	user, err := NewUser("alice", "a@example.com", "secret123")
	require.NoError(t, err)

	t.Run("grant then revoke", func(t *testing.T) {
		require.NoError(t, user.GrantAdmin())
		assert.True(t, user.IsAdmin())

		require.Error(t, user.GrantAdmin())

		require.NoError(t, user.RevokeAdmin())
		assert.False(t, user.IsAdmin())

		require.Error(t, user.RevokeAdmin())
	})
}

func TestPrincipal(t *testing.T) {
	admin := Principal{UserID: 1, Username: "root", Role: RoleAdmin}
	owner := Principal{UserID: 2, Username: "alice", Role: RoleUser}
	other := Principal{UserID: 3, Username: "bob", Role: RoleUser}

	assert.True(t, admin.CanActFor(2))
	assert.True(t, owner.CanActFor(2))
	assert.False(t, other.CanActFor(2))
}
