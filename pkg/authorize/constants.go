package authorize

type Action string
type Resource string
type Role string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionRead Action = "read"
	ActionList Action = "list"

	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionRead: {}, ActionList: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	ResourceSubmissions Resource = "submissions"
	ResourceUploads     Resource = "uploads"
	ResourceStats       Resource = "stats"
	ResourceProfile     Resource = "profile"
)

var KnownResources = map[Resource]struct{}{
	ResourceSubmissions: {}, ResourceUploads: {}, ResourceStats: {}, ResourceProfile: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// Roles are the policy subjects. A session carries exactly one.

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"

	// RoleGuest is used for anonymous sessions.
	RoleGuest Role = "guest"
)

var KnownRoles = map[Role]struct{}{
	RoleAdmin: {}, RoleMember: {}, RoleGuest: {},
}

// RoleOf maps a stored role string to a Role, defaulting to guest.
func RoleOf(s string) Role {
	r := Role(s)
	if _, ok := KnownRoles[r]; !ok || s == "" {
		return RoleGuest
	}
	return r
}

// PermissionPolicy is one "p" line: role may perform action on resource.
type PermissionPolicy struct {
	Role     Role
	Resource Resource
	Action   Action
}

// DefaultPolicies is the built-in policy set.
var DefaultPolicies = []PermissionPolicy{
	{RoleAdmin, ResourceSubmissions, ActionRead},
	{RoleAdmin, ResourceSubmissions, ActionList},
	{RoleAdmin, ResourceUploads, ActionRead},
	{RoleAdmin, ResourceStats, ActionRead},
	{RoleAdmin, ResourceProfile, ActionRead},
	{RoleMember, ResourceProfile, ActionRead},
}
