// Package reqctx carries request-scoped values through context.Context:
// the inbound request (id, client address, user agent), the signed-in
// principal, and the trace ids of the active span.
//
// HTTP middleware sets the values; services and loggers only read them.
//
//	ctx = reqctx.WithRequest(ctx, reqctx.Request{ID: rid, ClientIP: ip})
//	uid, signedIn := reqctx.UserIDFromContext(ctx)
//
// The logger built by pkg/logs adds LogAttrs to every record logged with a
// request context.
//
// A request always has a Request. A Principal is present only when the
// session is bound to an account.
package reqctx
