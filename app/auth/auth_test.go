package auth

import (
	"context"
	"testing"
	"time"

	"postboard/app/apperr"
	"postboard/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	ctx := context.Background()
	issuer := NewIssuer("secret", time.Hour, mock.NewSessionRepository())

	token, expiresAt, err := issuer.Issue(ctx, 4, "user")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	p, err := issuer.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, Principal{ID: 4, Role: "user"}, p)
	assert.False(t, p.IsAdmin())
}

func TestNewLoginInvalidatesPreviousToken(t *testing.T) {
	ctx := context.Background()
	issuer := NewIssuer("secret", time.Hour, mock.NewSessionRepository())

	first, _, err := issuer.Issue(ctx, 1, "admin")
	require.NoError(t, err)
	second, _, err := issuer.Issue(ctx, 1, "admin")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = issuer.Validate(ctx, first)
	assert.ErrorIs(t, err, apperr.ErrSessionExpired)

	p, err := issuer.Validate(ctx, second)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}

func TestValidateFailures(t *testing.T) {
	ctx := context.Background()
	sessions := mock.NewSessionRepository()
	issuer := NewIssuer("secret", time.Hour, sessions)
	token, _, err := issuer.Issue(ctx, 2, "user")
	require.NoError(t, err)

	other := NewIssuer("other-secret", time.Hour, sessions)

	tests := []struct {
		name    string
		issuer  *Issuer
		token   string
		wantErr error
	}{
		{"empty token", issuer, "", apperr.ErrNoToken},
		{"garbage", issuer, "not-a-jwt", apperr.ErrInvalidToken},
		{"wrong secret", other, token, apperr.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.issuer.Validate(ctx, tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
		})
	}

	t.Run("revoked", func(t *testing.T) {
		require.NoError(t, issuer.Revoke(ctx, 2))
		_, err := issuer.Validate(ctx, token)
		assert.ErrorIs(t, err, apperr.ErrSessionExpired)
	})
}

func TestValidateExpired(t *testing.T) {
	ctx := context.Background()
	issuer := NewIssuer("secret", time.Minute, mock.NewSessionRepository())
	token, _, err := issuer.Issue(ctx, 3, "user")
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = issuer.Validate(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrSessionExpired)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)
	assert.True(t, CheckPassword(hash, "123456"))
	assert.False(t, CheckPassword(hash, "654321"))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("abc"))
	assert.Equal(t, "", BearerToken(""))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFrom(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{ID: 9, Role: "admin"})
	p, ok := PrincipalFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, 9, p.ID)
	assert.True(t, p.Authenticated())
}

func TestIssueRejectsInvalidSession(t *testing.T) {
	ctx := context.Background()
	sessions := mock.NewSessionRepository()
	issuer := NewIssuer("secret", time.Hour, sessions)

	_, _, err := issuer.Issue(ctx, 0, "user")
	require.Error(t, err)

	_, err = sessions.Get(ctx, 0)
	assert.Error(t, err, "nothing is stored for an invalid session")
}
