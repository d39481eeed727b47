package reqctx

import (
	"context"
	"time"
)

type ctxKey int

const (
	keyRequest ctxKey = iota
	keyPrincipal
)

// Request describes the inbound HTTP request. ClientIP honours the proxy
// header configured on the fiber app.
type Request struct {
	ID         string
	ClientIP   string
	UserAgent  string
	ReceivedAt time.Time
}

func WithRequest(ctx context.Context, r Request) context.Context {
	return context.WithValue(ctx, keyRequest, r)
}

func RequestFromContext(ctx context.Context) (Request, bool) {
	r, ok := ctx.Value(keyRequest).(Request)
	return r, ok
}

// RequestIDFromContext returns the request id, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	r, _ := RequestFromContext(ctx)
	return r.ID
}
