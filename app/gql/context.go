package gql

import (
	"context"

	"postboard/app/apperr"
	"postboard/app/auth"
)

type authErrKey struct{}

func withAuthError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, authErrKey{}, err)
}

// actorFrom returns the caller validated by the handler, or the reason
// its token was rejected.
func actorFrom(ctx context.Context) (auth.Principal, error) {
	if p, ok := auth.PrincipalFrom(ctx); ok {
		return p, nil
	}
	if err, ok := ctx.Value(authErrKey{}).(error); ok {
		return auth.Principal{}, err
	}
	return auth.Principal{}, apperr.ErrNoToken
}
