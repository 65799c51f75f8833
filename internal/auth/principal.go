package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrNoSession is returned when an operation needs a logged-in user and there is none.
var ErrNoSession = errors.New("not logged in")

// Principal is the user the current session is authenticated as.
type Principal struct {
	UserID   int64
	Username string
}

type principalKey struct{}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the principal from context (if any).
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// RequirePrincipal ensures a principal with a username is present in context.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok || strings.TrimSpace(p.Username) == "" {
		return nil, ErrNoSession
	}
	return p, nil
}
