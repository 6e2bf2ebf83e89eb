package authsvc

import (
	"errors"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/campuscare/authsvc/jwt"
	"github.com/campuscare/authsvc/mailer"
	"github.com/campuscare/authsvc/password"
	"github.com/campuscare/authsvc/session"
)

// Builder assembles an [Engine]. Configure it with the With* methods, then
// call Build exactly once.
type Builder struct {
	config Config
	redis  *redis.Client

	accounts AccountStore
	mail     mailer.Sender

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration. The config is cloned;
// later mutation of cfg does not affect the built engine.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client used for session storage and, when no
// explicit account store is given, for account storage too.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithAccountStore overrides the account backend. When unset, Build wires
// a Redis-backed store on the client from WithRedis.
func (b *Builder) WithAccountStore(store AccountStore) *Builder {
	b.accounts = store
	return b
}

// WithMailer sets the outbound mail sender. When unset, Build wires the
// demo sender, which logs messages instead of delivering them.
func (b *Builder) WithMailer(sender mailer.Sender) *Builder {
	b.mail = sender
	return b
}

// WithMetricsEnabled toggles counter collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, wires the stores and crypto
// components, and returns the ready engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	engine := &Engine{
		config:       cfg,
		sessionStore: session.NewStore(b.redis, cfg.Session.RedisPrefix),
		metrics:      NewMetrics(cfg.Metrics),
	}

	engine.accounts = b.accounts
	if engine.accounts == nil {
		engine.accounts = NewRedisAccountStore(b.redis, cfg.Session.RedisPrefix)
	}

	engine.mail = b.mail
	if engine.mail == nil {
		engine.mail = mailer.NewDemoSender(log.Default())
	}

	ph, err := password.NewHasher(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	engine.passwordHash = ph

	tm, err := jwt.NewManager(jwt.Config{
		SigningKey: cloneBytes(cfg.Token.SigningKey),
		Issuer:     cfg.Token.Issuer,
		Leeway:     cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}
	engine.tokens = tm

	b.built = true

	return engine, nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
