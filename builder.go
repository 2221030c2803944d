package authcore

import (
	"errors"

	"github.com/google/uuid"
	"github.com/midroc-erp/authcore/directory"
	"github.com/midroc-erp/authcore/internal/rate"
	"github.com/midroc-erp/authcore/password"
	"github.com/midroc-erp/authcore/rbac"
	"github.com/midroc-erp/authcore/session"
	"github.com/midroc-erp/authcore/token"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. One builder builds one engine.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	tables    *rbac.Registry
	directory directory.Store
	auditSink AuditSink
	clientID  string

	built bool
}

// New starts a builder with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing sessions and the login
// throttle.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithTables overrides the built-in role and module tables.
func (b *Builder) WithTables(tables *rbac.Registry) *Builder {
	b.tables = tables
	return b
}

// WithDirectory sets the account directory backing all identity
// operations.
func (b *Builder) WithDirectory(store directory.Store) *Builder {
	b.directory = store
	return b
}

// WithAuditSink sets the destination for audit events. Only consulted
// when Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClientID names this installation's session slot. Two engines
// sharing a client ID share one persisted session; the default is a
// fresh random ID, which means no cross-restart persistence.
func (b *Builder) WithClientID(id string) *Builder {
	b.clientID = id
	return b
}

// WithMetricsEnabled toggles the counter set without replacing the
// whole config.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the login latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine. The builder
// cannot be reused afterwards.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.directory == nil {
		return nil, errors.New("directory store required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tables := b.tables
	if tables == nil {
		tables = rbac.Default()
	}

	clientID := b.clientID
	if clientID == "" {
		clientID = uuid.NewString()
	}

	storeOpts := []session.StoreOption{session.WithTTL(cfg.Session.TTL)}
	if cfg.Session.SlidingExpiration {
		storeOpts = append(storeOpts, session.WithSlidingTTL())
	}

	engine := &Engine{
		config:    cfg,
		tables:    tables,
		directory: b.directory,
		sessions:  session.NewStore(b.redis, cfg.Session.RedisPrefix, storeOpts...),
		clientID:  clientID,
	}

	if cfg.Security.EnableLoginThrottle {
		engine.limiter = rate.New(b.redis, rate.Config{
			EnableIPThrottle: cfg.Security.EnableIPThrottle,
			MaxLoginAttempts: cfg.Security.MaxLoginAttempts,
			LoginCooldown:    cfg.Security.LoginCooldown,
		})
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	ph, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	engine.hasher = ph

	if cfg.Token.Enabled {
		tm, err := token.NewManager(token.Config{
			TTL:           cfg.Token.TTL,
			SigningMethod: token.SigningMethod(cfg.Token.SigningMethod),
			PrivateKey:    cloneBytes(cfg.Token.PrivateKey),
			PublicKey:     cloneBytes(cfg.Token.PublicKey),
			Issuer:        cfg.Token.Issuer,
			Audience:      cfg.Token.Audience,
		})
		if err != nil {
			return nil, err
		}
		engine.tokens = tm
	}

	b.built = true

	return engine, nil
}
