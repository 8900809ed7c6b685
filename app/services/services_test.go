package services

import (
	"context"
	"testing"
	"time"

	"postboard/app/auth"
	"postboard/app/models"
	"postboard/app/repositories"

	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	store, err := repositories.NewInMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	repos := repositories.NewRepositories(store)
	return New(repos, auth.NewIssuer("test-secret", time.Hour, repos.Sessions))
}

// signupAndLogin registers a user and returns the principal from its token.
func signupAndLogin(t *testing.T, svc *Services, username, email string) auth.Principal {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Users.Signup(ctx, SignupInput{Username: username, Email: email, Password: "pw123456"})
	require.NoError(t, err)
	res, err := svc.Users.Login(ctx, email, "pw123456")
	require.NoError(t, err)
	p, err := svc.Auth.Validate(ctx, res.Token)
	require.NoError(t, err)
	return p
}

func newAdmin(t *testing.T, svc *Services) auth.Principal {
	t.Helper()
	admin, err := svc.Users.CreateAdmin(context.Background(), SignupInput{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "123456",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, admin.Role)
	return auth.Principal{ID: admin.ID, Role: admin.Role}
}
