package authorize

import (
	"context"
	"log/slog"
	"time"

	"github.com/Alijeyrad/founders_backend/pkg/reqctx"
)

// AuditedAuthorization logs every decision and policy change made through
// the wrapped IAuthorization. Denials log at WARN, errors at ERROR.
type AuditedAuthorization struct {
	inner  IAuthorization
	logger *slog.Logger
}

func NewAuditedAuthorization(inner IAuthorization, logger *slog.Logger) IAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditedAuthorization{inner: inner, logger: logger}
}

func (a *AuditedAuthorization) Enforce(ctx context.Context, role Role, object Resource, action Action) (bool, error) {
	start := time.Now()
	allowed, err := a.inner.Enforce(ctx, role, object, action)

	level := slog.LevelInfo
	if !allowed {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{
		slog.String("role", string(role)),
		slog.String("resource", string(object)),
		slog.String("action", string(action)),
		slog.Bool("allowed", allowed),
		slog.Duration("took", time.Since(start)),
	}
	if uid, ok := reqctx.UserIDFromContext(ctx); ok {
		attrs = append(attrs, slog.Int("user_id", uid))
	}
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.Any("err", err))
	}
	a.logger.LogAttrs(ctx, level, "authz_decision", attrs...)

	return allowed, err
}

func (a *AuditedAuthorization) MustEnforce(ctx context.Context, role Role, object Resource, action Action) error {
	allowed, err := a.Enforce(ctx, role, object, action)
	switch {
	case err != nil:
		return err
	case !allowed:
		return ErrForbidden
	}
	return nil
}

func (a *AuditedAuthorization) AddPermission(ctx context.Context, p PermissionPolicy) (bool, error) {
	added, err := a.inner.AddPermission(ctx, p)

	level := slog.LevelInfo
	attrs := []slog.Attr{
		slog.String("role", string(p.Role)),
		slog.String("resource", string(p.Resource)),
		slog.String("action", string(p.Action)),
		slog.Bool("added", added),
	}
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.Any("err", err))
	}
	a.logger.LogAttrs(ctx, level, "authz_policy_added", attrs...)
	return added, err
}
