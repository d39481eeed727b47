package password

import "github.com/Alijeyrad/founders_backend/config"

const (
	defaultMinLength = 8
	lowMemoryCapKiB  = 32 * 1024
)

// Config is the hashing cost plus the registration length rule. Zero cost
// fields fall back to DefaultParams.
type Config struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32

	// LowMemoryMode caps memory for small containers.
	LowMemoryMode bool

	MinLength int
}

func (c Config) ToParams() *Params {
	p := DefaultParams()
	if c.MemoryKiB > 0 {
		p.Memory = c.MemoryKiB
	}
	if c.Iterations > 0 {
		p.Iterations = c.Iterations
	}
	if c.Parallelism > 0 {
		p.Parallelism = c.Parallelism
	}
	if c.SaltLength > 0 {
		p.SaltLength = c.SaltLength
	}
	if c.KeyLength > 0 {
		p.KeyLength = c.KeyLength
	}
	if c.LowMemoryMode {
		p.Memory = min(p.Memory, lowMemoryCapKiB)
	}
	return p
}

func DefaultConfig() Config {
	d := DefaultParams()
	return Config{
		MemoryKiB:   d.Memory,
		Iterations:  d.Iterations,
		Parallelism: d.Parallelism,
		SaltLength:  d.SaltLength,
		KeyLength:   d.KeyLength,
		MinLength:   defaultMinLength,
	}
}

func FromCentralConfig(c config.PasswordConfig) Config {
	cfg := Config{
		MemoryKiB:     c.MemoryKiB,
		Iterations:    c.Iterations,
		Parallelism:   c.Parallelism,
		SaltLength:    c.SaltLength,
		KeyLength:     c.KeyLength,
		LowMemoryMode: c.LowMemoryMode,
		MinLength:     c.MinLength,
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = defaultMinLength
	}
	return cfg
}
