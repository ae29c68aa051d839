package ctxkeys

import (
	"context"

	"github.com/shothost/shothost/internal/service"
)

// contextKey is a private type so keys cannot collide with other packages.
type contextKey string

const (
	principalKey contextKey = "principal"
)

// Principal returns the resolved caller, or nil for anonymous requests.
func Principal(ctx context.Context) *service.Principal {
	p, _ := ctx.Value(principalKey).(*service.Principal)
	return p
}

func WithPrincipal(ctx context.Context, p *service.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
