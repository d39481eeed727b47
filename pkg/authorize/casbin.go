package authorize

import (
	"context"
	"errors"
	"fmt"

	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidArgs = errors.New("invalid authorization arguments")
)

// DefaultModel is role-based with wildcard support on resource and action.
const DefaultModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// IAuthorization is the only thing services/middleware should depend on.
type IAuthorization interface {
	// Enforce answers: "may role perform action on object?"
	Enforce(ctx context.Context, role Role, object Resource, action Action) (bool, error)

	// MustEnforce returns ErrForbidden if not allowed.
	MustEnforce(ctx context.Context, role Role, object Resource, action Action) error

	AddPermission(ctx context.Context, p PermissionPolicy) (bool, error)
}

// Authorization is a thin typed wrapper around casbin.SyncedEnforcer.
type Authorization struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds the enforcer described by cfg. Without a policy file
// the built-in policies are seeded.
func NewEnforcer(cfg Config) (*casbin.SyncedEnforcer, error) {
	var (
		m   model.Model
		err error
	)
	if cfg.ModelPath != "" {
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(DefaultModel)
	}
	if err != nil {
		return nil, fmt.Errorf("authorize: load model: %w", err)
	}

	if cfg.PolicyPath != "" {
		e, err := casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
		if err != nil {
			return nil, fmt.Errorf("authorize: load policy %q: %w", cfg.PolicyPath, err)
		}
		return e, nil
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authorize: new enforcer: %w", err)
	}
	return e, nil
}

// New builds an IAuthorization from cfg, seeding the built-in policies when
// no policy file is configured and wrapping it with audit logging if enabled.
func New(ctx context.Context, cfg Config) (IAuthorization, error) {
	e, err := NewEnforcer(cfg)
	if err != nil {
		return nil, err
	}

	var auth IAuthorization = NewAuthorization(e)
	if cfg.PolicyPath == "" {
		if err := SeedDefaultPolicies(ctx, auth); err != nil {
			return nil, err
		}
	}
	if cfg.EnableAudit {
		auth = NewAuditedAuthorization(auth, nil)
	}
	return auth, nil
}

// NewAuthorization wraps an already-configured enforcer.
func NewAuthorization(e *casbin.SyncedEnforcer) *Authorization {
	return &Authorization{enforcer: e}
}

func (a *Authorization) Enforce(ctx context.Context, role Role, object Resource, action Action) (bool, error) {
	_ = ctx

	if role == "" {
		return false, fmt.Errorf("%w: role is empty", ErrInvalidArgs)
	}
	if _, ok := KnownResources[object]; !ok {
		return false, fmt.Errorf("%w: unknown resource: %q", ErrInvalidArgs, object)
	}
	if _, ok := KnownActions[action]; !ok {
		return false, fmt.Errorf("%w: unknown action: %q", ErrInvalidArgs, action)
	}

	return a.enforcer.Enforce(string(role), string(object), string(action))
}

func (a *Authorization) MustEnforce(ctx context.Context, role Role, object Resource, action Action) error {
	ok, err := a.Enforce(ctx, role, object, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (a *Authorization) AddPermission(ctx context.Context, p PermissionPolicy) (bool, error) {
	_ = ctx
	if _, ok := KnownRoles[p.Role]; !ok {
		return false, fmt.Errorf("%w: unknown role: %q", ErrInvalidArgs, p.Role)
	}
	if _, ok := KnownResources[p.Resource]; !ok && p.Resource != WildcardResource {
		return false, fmt.Errorf("%w: unknown resource: %q", ErrInvalidArgs, p.Resource)
	}
	if _, ok := KnownActions[p.Action]; !ok && p.Action != WildcardAction {
		return false, fmt.Errorf("%w: unknown action: %q", ErrInvalidArgs, p.Action)
	}
	return a.enforcer.AddPolicy(string(p.Role), string(p.Resource), string(p.Action))
}
