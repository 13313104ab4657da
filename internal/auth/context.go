package auth

import "context"

// Principal is the authenticated caller of a request.
type Principal struct {
	AccountID string
	SessionID string
	Email     string
}

type contextKey string

const principalKey contextKey = "silverlink-principal"

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the principal stored by WithPrincipal.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}
