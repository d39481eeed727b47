package authorize

import (
	"context"
	"fmt"
	"log/slog"
)

// SeedDefaultPolicies loads DefaultPolicies into auth.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	added := 0
	for _, p := range DefaultPolicies {
		ok, err := auth.AddPermission(ctx, p)
		if err != nil {
			return fmt.Errorf("authorize: seed %s %s %s: %w", p.Role, p.Resource, p.Action, err)
		}
		if ok {
			added++
		}
	}
	slog.DebugContext(ctx, "authorize: policies seeded", "added", added, "total", len(DefaultPolicies))
	return nil
}
