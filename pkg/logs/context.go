package logs

import (
	"context"
	"log/slog"

	"github.com/Alijeyrad/founders_backend/pkg/reqctx"
)

// requestHandler stamps records logged with a request context with the
// request id and trace ids, so call sites only pass ctx.
type requestHandler struct {
	slog.Handler
}

func (h requestHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if attrs := reqctx.LogAttrs(ctx); len(attrs) > 0 {
			r = r.Clone()
			r.Add(attrs...)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h requestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return requestHandler{h.Handler.WithAttrs(attrs)}
}

func (h requestHandler) WithGroup(name string) slog.Handler {
	return requestHandler{h.Handler.WithGroup(name)}
}
