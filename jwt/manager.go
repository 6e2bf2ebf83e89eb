package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid is returned for any token that fails signature,
// structure, issuer, or time validation.
var ErrTokenInvalid = errors.New("invalid token")

// Config holds the signing parameters for session tokens.
type Config struct {
	// SigningKey is the HS256 secret. Required, at least 32 bytes.
	SigningKey []byte
	Issuer     string
	// Leeway absorbs clock skew during parsing.
	Leeway time.Duration
}

// SessionClaims is the payload carried by a session token.
type SessionClaims struct {
	SID   string `json:"sid"`
	UID   string `json:"uid"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager mints and parses session tokens. Immutable after construction.
type Manager struct {
	config Config
}

// NewManager validates the configuration and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.SigningKey) < 32 {
		return nil, errors.New("signing key must be at least 32 bytes")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Manager{config: cfg}, nil
}

// Create signs a token naming the session. ttl <= 0 omits the expiry
// claim: the server-side session store is then the only lifetime bound.
func (m *Manager) Create(sessionID, accountID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SID:   sessionID,
		UID:   accountID,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   m.config.Issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.SigningKey)
}

// Parse verifies the signature and standard claims and returns the
// session binding. Every failure collapses to ErrTokenInvalid so callers
// cannot distinguish forged from merely stale tokens.
func (m *Manager) Parse(token string) (*SessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(m.config.Leeway),
	}
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}

	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return m.config.SigningKey, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.SID == "" || claims.UID == "" {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
