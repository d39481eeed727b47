package constants

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "FOUNDERS"
)

// Upload limits.
const (
	DefaultMaxFileSize int64 = 5 << 20 // 5 MiB
)

var DefaultAllowedTypes = []string{"jpg", "jpeg", "png", "gif", "pdf"}

// Submission lifecycle states. Only pending is assigned by the intake flow.
const (
	SubmissionStatusPending = "pending"
)

// User states and roles.
const (
	UserStatusPending = "pending"
	UserStatusActive  = "active"

	RoleMember = "member"
	RoleAdmin  = "admin"
)

var AccountTypes = []string{"founder", "member", "investor"}
