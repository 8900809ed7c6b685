package auth

import (
	"context"
	"strings"

	"postboard/app/models"
)

// Principal is the authenticated caller of an operation.
type Principal struct {
	ID   int
	Role string
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

// Authenticated reports whether p came from a validated token.
func (p Principal) Authenticated() bool { return p.ID > 0 }

type principalKey struct{}

// WithPrincipal stores p on the context for downstream handlers.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
