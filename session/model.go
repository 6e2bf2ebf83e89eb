package session

// Session binds an opaque session identifier to an account identity. It
// references the account by ID and email only; account state is always
// re-read from the account store at authorization time.
type Session struct {
	SessionID string
	AccountID string
	Email     string
	Name      string

	CreatedAt int64
	ExpiresAt int64 // unix seconds, 0 means no expiry
}

// Expired reports whether the session's lifetime has passed at now.
func (s *Session) Expired(now int64) bool {
	return s.ExpiresAt != 0 && now > s.ExpiresAt
}
