package authsvc

import (
	"errors"
	"time"
)

// Config defines all engine tunables. Zero values are rejected by
// [Config.Validate]; start from [DefaultConfig] and override.
type Config struct {
	OTP      OTPConfig
	Session  SessionConfig
	Password PasswordConfig
	Token    TokenConfig
	Metrics  MetricsConfig
}

/*
====================================
OTP CONFIG
====================================
*/

// OTPConfig controls passcode generation and validity.
type OTPConfig struct {
	// Digits is the passcode length. Codes are drawn uniformly from the
	// full width, so the leading digit is never zero.
	Digits int
	// TTL is the validity window stamped at issue time. Expiry is detected
	// lazily at verification, never purged proactively.
	TTL time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls server-side session persistence.
type SessionConfig struct {
	RedisPrefix string
	// Lifetime bounds how long a session survives in the store. Zero means
	// the session lives until an explicit logout.
	Lifetime time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig carries argon2id parameters.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls the signed session token handed to clients.
type TokenConfig struct {
	// SigningKey is the HS256 secret. Required.
	SigningKey []byte
	Issuer     string
	// Leeway absorbs clock skew when parsing. Bounded to two minutes.
	Leeway time.Duration
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the configuration the service ships with: 6-digit
// codes valid for five minutes, 30-day sessions, argon2id at interactive
// cost.
func DefaultConfig() Config {
	return Config{
		OTP: OTPConfig{
			Digits: 6,
			TTL:    5 * time.Minute,
		},
		Session: SessionConfig{
			RedisPrefix: "as",
			Lifetime:    30 * 24 * time.Hour,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        1,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Token: TokenConfig{
			Issuer: "authsvc",
			Leeway: 30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for internally inconsistent or unsafe
// values. Builder.Build calls it; direct callers may too.
func (c Config) Validate() error {
	if c.OTP.Digits < 6 || c.OTP.Digits > 8 {
		return errors.New("otp digits must be between 6 and 8")
	}
	if c.OTP.TTL <= 0 {
		return errors.New("otp ttl must be positive")
	}
	if c.Session.Lifetime < 0 {
		return errors.New("session lifetime must not be negative")
	}
	if len(c.Token.SigningKey) < 32 {
		return errors.New("token signing key must be at least 32 bytes")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("token leeway must be between 0 and 2m")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Token.SigningKey != nil {
		out.Token.SigningKey = make([]byte, len(cfg.Token.SigningKey))
		copy(out.Token.SigningKey, cfg.Token.SigningKey)
	}
	return out
}
