package authcore

import (
	"errors"
	"time"

	"github.com/midroc-erp/authcore/rbac"
)

// Config is the engine configuration. Configure once, pass to the
// Builder, and treat as immutable afterwards.
type Config struct {
	Session   SessionConfig
	Password  PasswordConfig
	Signup    SignupConfig
	Token     TokenConfig
	Security  SecurityConfig
	Directory DirectoryConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls session persistence.
type SessionConfig struct {
	RedisPrefix       string
	TTL               time.Duration
	SlidingExpiration bool
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds Argon2id cost parameters and login-time policy.
type PasswordConfig struct {
	Memory         uint32 // in KB
	Time           uint32
	Parallelism    uint8
	SaltLength     uint32
	KeyLength      uint32
	UpgradeOnLogin bool
	MinLength      int
}

/*
====================================
SIGNUP CONFIG
====================================
*/

// SignupConfig controls self-registration. AllowedRoles nil means every
// role except admin; admin accounts are only ever created by an
// administrator directly.
type SignupConfig struct {
	Enabled      bool
	AllowedRoles []rbac.Role
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls the optional access-token subsystem.
type TokenConfig struct {
	Enabled       bool
	TTL           time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig holds login throttling knobs.
type SecurityConfig struct {
	EnableLoginThrottle bool
	EnableIPThrottle    bool
	MaxLoginAttempts    int
	LoginCooldown       time.Duration
}

// DirectoryConfig bounds directory store calls.
type DirectoryConfig struct {
	// OpTimeout caps each store round trip. Zero disables the cap and
	// leaves deadlines to the caller's context.
	OpTimeout time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the documented defaults. Mutate the copy and
// pass it to [Builder.WithConfig].
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			RedisPrefix:       "sess",
			TTL:               30 * 24 * time.Hour,
			SlidingExpiration: true,
		},
		Password: PasswordConfig{
			Memory:         65536,
			Time:           3,
			Parallelism:    2,
			SaltLength:     16,
			KeyLength:      32,
			UpgradeOnLogin: true,
			MinLength:      8,
		},
		Signup: SignupConfig{
			Enabled: true,
		},
		Token: TokenConfig{
			Enabled:       false,
			TTL:           15 * time.Minute,
			SigningMethod: "hs256",
		},
		Security: SecurityConfig{
			EnableLoginThrottle: true,
			EnableIPThrottle:    false,
			MaxLoginAttempts:    5,
			LoginCooldown:       15 * time.Minute,
		},
		Directory: DirectoryConfig{
			OpTimeout: 5 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	if cfg.Signup.AllowedRoles != nil {
		out.Signup.AllowedRoles = append([]rbac.Role(nil), cfg.Signup.AllowedRoles...)
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for internal consistency. The
// Builder calls it; callers validating ahead of time get the same rules.
func (c *Config) Validate() error {
	// Session
	if c.Session.TTL < 0 {
		return errors.New("Session TTL must be >= 0")
	}
	if c.Session.SlidingExpiration && c.Session.TTL <= 0 {
		return errors.New("Session TTL must be > 0 when SlidingExpiration is true")
	}

	// Password
	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KB")
	}
	if c.Password.Time < 1 {
		return errors.New("Password Time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("Password Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("Password KeyLength must be >= 16")
	}
	if c.Password.MinLength < 8 {
		return errors.New("Password MinLength must be >= 8")
	}

	// Signup
	for _, role := range c.Signup.AllowedRoles {
		if !role.Valid() {
			return errors.New("Signup AllowedRoles contains unknown role")
		}
		if role == rbac.RoleAdmin {
			return errors.New("Signup AllowedRoles must not include admin")
		}
	}

	// Token
	if c.Token.Enabled {
		if c.Token.TTL <= 0 {
			return errors.New("Token TTL must be > 0")
		}
		if c.Token.SigningMethod != "hs256" && c.Token.SigningMethod != "ed25519" {
			return errors.New("unsupported token signing method")
		}
		if c.Token.SigningMethod == "hs256" && len(c.Token.PrivateKey) == 0 {
			return errors.New("hs256 requires PrivateKey")
		}
		if c.Token.SigningMethod == "ed25519" && (len(c.Token.PrivateKey) == 0 || len(c.Token.PublicKey) == 0) {
			return errors.New("ed25519 requires PrivateKey and PublicKey")
		}
	}

	// Security
	if c.Security.EnableLoginThrottle {
		if c.Security.MaxLoginAttempts <= 0 {
			return errors.New("MaxLoginAttempts must be > 0 when login throttle is enabled")
		}
		if c.Security.LoginCooldown <= 0 {
			return errors.New("LoginCooldown must be > 0 when login throttle is enabled")
		}
	}

	// Directory
	if c.Directory.OpTimeout < 0 {
		return errors.New("Directory OpTimeout must be >= 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}

// signupRoleAllowed reports whether role may be requested through
// Signup. An empty allow-list means every role except admin.
func (c *Config) signupRoleAllowed(role rbac.Role) bool {
	if len(c.Signup.AllowedRoles) == 0 {
		return role.Valid() && role != rbac.RoleAdmin
	}
	for _, allowed := range c.Signup.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}
