package reqctx

import "context"

// Principal identifies the signed-in account behind a request. It is built
// from the session by HTTP middleware.
type Principal struct {
	UserID   int
	Email    string
	Role     string
	Verified bool
}

// WithPrincipal stores the signed-in account in the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, keyPrincipal, p)
}

// PrincipalFromContext returns the signed-in account, or nil for anonymous
// requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(keyPrincipal).(*Principal)
	return p
}

// IsAuthenticated reports whether a signed-in account is attached.
func IsAuthenticated(ctx context.Context) bool {
	p := PrincipalFromContext(ctx)
	return p != nil && p.UserID > 0
}

// UserIDFromContext returns the signed-in user id.
// Returns 0 and false if the request is anonymous.
func UserIDFromContext(ctx context.Context) (int, bool) {
	p := PrincipalFromContext(ctx)
	if p == nil || p.UserID == 0 {
		return 0, false
	}
	return p.UserID, true
}
