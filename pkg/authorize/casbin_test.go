package authorize

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestAuthorization(t *testing.T) IAuthorization {
	t.Helper()
	auth, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return auth
}

func TestEnforceDefaultPolicies(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		role     Role
		resource Resource
		action   Action
		want     bool
		wantErr  bool
	}{
		{"admin reads submissions", RoleAdmin, ResourceSubmissions, ActionRead, true, false},
		{"admin lists submissions", RoleAdmin, ResourceSubmissions, ActionList, true, false},
		{"admin reads uploads", RoleAdmin, ResourceUploads, ActionRead, true, false},
		{"admin reads stats", RoleAdmin, ResourceStats, ActionRead, true, false},
		{"member reads own profile", RoleMember, ResourceProfile, ActionRead, true, false},
		{"member cannot read submissions", RoleMember, ResourceSubmissions, ActionRead, false, false},
		{"guest cannot read stats", RoleGuest, ResourceStats, ActionRead, false, false},
		{"error for empty role", "", ResourceSubmissions, ActionRead, false, true},
		{"error for unknown resource", RoleAdmin, "payments", ActionRead, false, true},
		{"error for unknown action", RoleAdmin, ResourceSubmissions, "delete", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.Enforce(ctx, tt.role, tt.resource, tt.action)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Enforce() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Enforce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustEnforce(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	if err := auth.MustEnforce(ctx, RoleAdmin, ResourceSubmissions, ActionRead); err != nil {
		t.Errorf("MustEnforce(admin) error = %v", err)
	}
	if err := auth.MustEnforce(ctx, RoleMember, ResourceSubmissions, ActionRead); !errors.Is(err, ErrForbidden) {
		t.Errorf("MustEnforce(member) error = %v, want ErrForbidden", err)
	}
}

func TestAddPermission(t *testing.T) {
	e, err := NewEnforcer(Config{})
	if err != nil {
		t.Fatalf("NewEnforcer() error: %v", err)
	}
	auth := NewAuthorization(e)
	ctx := context.Background()

	added, err := auth.AddPermission(ctx, PermissionPolicy{RoleMember, WildcardResource, ActionRead})
	if err != nil || !added {
		t.Fatalf("AddPermission() = %v, %v", added, err)
	}
	// same rule twice is a no-op
	if added, _ := auth.AddPermission(ctx, PermissionPolicy{RoleMember, WildcardResource, ActionRead}); added {
		t.Error("duplicate AddPermission() reported added")
	}

	if ok, _ := auth.Enforce(ctx, RoleMember, ResourceStats, ActionRead); !ok {
		t.Error("wildcard resource should allow stats read")
	}
	if ok, _ := auth.Enforce(ctx, RoleMember, ResourceStats, ActionList); ok {
		t.Error("wildcard resource must not widen the action")
	}

	if _, err := auth.AddPermission(ctx, PermissionPolicy{"owner", ResourceStats, ActionRead}); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("unknown role error = %v", err)
	}
}

func TestPolicyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.csv")
	if err := os.WriteFile(path, []byte("p, member, stats, read\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	auth, err := New(context.Background(), Config{PolicyPath: path})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if ok, _ := auth.Enforce(context.Background(), RoleMember, ResourceStats, ActionRead); !ok {
		t.Error("policy from file not loaded")
	}
	// built-in policies are not seeded when a file is given
	if ok, _ := auth.Enforce(context.Background(), RoleAdmin, ResourceSubmissions, ActionRead); ok {
		t.Error("built-in policies should not be seeded alongside a policy file")
	}
}

func TestAuditedAuthorizationLogs(t *testing.T) {
	e, _ := NewEnforcer(Config{})
	inner := NewAuthorization(e)
	_ = SeedDefaultPolicies(context.Background(), inner)

	var buf bytes.Buffer
	auth := NewAuditedAuthorization(inner, slog.New(slog.NewTextHandler(&buf, nil)))

	if _, err := auth.Enforce(context.Background(), RoleMember, ResourceStats, ActionRead); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"authz_decision", "role=member", "allowed=false", "level=WARN"} {
		if !strings.Contains(out, want) {
			t.Errorf("audit log missing %q: %s", want, out)
		}
	}
}

func TestRoleOf(t *testing.T) {
	if RoleOf("admin") != RoleAdmin || RoleOf("member") != RoleMember {
		t.Error("known roles not mapped")
	}
	if RoleOf("") != RoleGuest || RoleOf("root") != RoleGuest {
		t.Error("unknown roles should map to guest")
	}
}
