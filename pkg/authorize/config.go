package authorize

import "github.com/Alijeyrad/founders_backend/config"

// Config holds configuration for the authorization system
type Config struct {
	// ModelPath is an optional casbin model file replacing the built-in model
	ModelPath string

	// PolicyPath is an optional CSV policy file. Without it the built-in
	// policies are loaded into memory.
	PolicyPath string

	// EnableAudit logs every authorization decision
	EnableAudit bool
}

// DefaultConfig returns sensible defaults for authorization configuration
func DefaultConfig() Config {
	return Config{EnableAudit: true}
}

// FromCentralConfig converts central config.AuthorizationConfig to package Config
func FromCentralConfig(c config.AuthorizationConfig) Config {
	return Config{
		ModelPath:   c.ModelPath,
		PolicyPath:  c.PolicyPath,
		EnableAudit: c.EnableAudit,
	}
}
