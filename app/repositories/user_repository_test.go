package repositories

import (
	"context"
	"testing"
	"time"

	"postboard/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *models.User {
	return &models.User{
		Username:     "user",
		Email:        email,
		PasswordHash: "hash",
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
	}
}

func TestBadgerUserRepository(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)
	users := repos.Users

	alice := newUser("alice@example.com")
	require.NoError(t, users.Create(ctx, alice))
	assert.Equal(t, 1, alice.ID)

	t.Run("duplicate email", func(t *testing.T) {
		err := users.Create(ctx, newUser("alice@example.com"))
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("get by email is case insensitive", func(t *testing.T) {
		found, err := users.GetByEmail(ctx, " Alice@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)
		assert.Equal(t, "hash", found.PasswordHash)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := users.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update moves email index", func(t *testing.T) {
		alice.Email = "alice2@example.com"
		require.NoError(t, users.Update(ctx, alice))

		_, err := users.GetByEmail(ctx, "alice@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
		found, err := users.GetByEmail(ctx, "alice2@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)

		// the old address is free again
		require.NoError(t, users.Create(ctx, newUser("alice@example.com")))
	})

	t.Run("update onto taken email", func(t *testing.T) {
		bob := newUser("bob@example.com")
		require.NoError(t, users.Create(ctx, bob))
		bob.Email = "alice2@example.com"
		assert.ErrorIs(t, users.Update(ctx, bob), ErrEmailTaken)
	})

	t.Run("list ordered by id", func(t *testing.T) {
		list, err := users.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		for i := 1; i < len(list); i++ {
			assert.Less(t, list[i-1].ID, list[i].ID)
		}
	})

	t.Run("delete removes session and email", func(t *testing.T) {
		require.NoError(t, repos.Sessions.Put(ctx, &models.Session{
			ID: "s", UserID: alice.ID, Token: "t", CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour),
		}))
		require.NoError(t, users.Delete(ctx, alice.ID))

		_, err := users.GetByID(ctx, alice.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = users.GetByEmail(ctx, "alice2@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repos.Sessions.Get(ctx, alice.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete missing", func(t *testing.T) {
		assert.ErrorIs(t, users.Delete(ctx, 999), ErrNotFound)
	})
}

func TestBadgerSessionRepository(t *testing.T) {
	ctx := context.Background()
	sessions := newTestRepositories(t).Sessions

	first := &models.Session{ID: "one", UserID: 7, Token: "a", CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
	second := &models.Session{ID: "two", UserID: 7, Token: "b", CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, sessions.Put(ctx, first))
	require.NoError(t, sessions.Put(ctx, second))

	got, err := sessions.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "two", got.ID)
	assert.Equal(t, "b", got.Token)

	require.NoError(t, sessions.Delete(ctx, 7))
	_, err = sessions.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
