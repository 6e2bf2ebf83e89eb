package authsvc

import (
	"context"
	"time"
)

// AccountRecord is the full account row held by an [AccountStore]. It
// carries the credential hash and the transient passcode sub-state; the
// plaintext password never appears here.
//
// The passcode fields move together: a non-empty OTPCode always has a
// non-zero OTPExpiresAt, and clearing one clears the other.
type AccountRecord struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Active       bool

	OTPCode      string
	OTPExpiresAt int64 // unix seconds, 0 when no code is pending

	LastLoginAt int64 // unix seconds, 0 until the first full login
	CreatedAt   int64
}

// HasPendingOTP reports whether a passcode is outstanding, regardless of
// whether it has expired. Expiry is only ever detected at consume time.
func (r AccountRecord) HasPendingOTP() bool {
	return r.OTPCode != ""
}

// CreateAccountInput is the input for [AccountStore.Create].
type CreateAccountInput struct {
	Name         string
	Email        string
	PasswordHash string
}

// AccountStore is the persistence contract the engine depends on. All
// methods are atomic: a call either applies its full mutation or leaves the
// store unchanged.
//
// ConsumeOTP performs the entire verify decision under the store's own
// isolation (transaction, lock, or conditional update) and returns, in
// order of precedence: [ErrStoreNoPendingOTP] when no code is set,
// [ErrStoreOTPMismatch] when the submitted code differs from the stored
// one, [ErrStoreOTPExpired] when the code matched but now is strictly
// after the expiry. On success it clears the passcode fields, stamps
// LastLoginAt with now, and returns the updated record.
type AccountStore interface {
	Create(ctx context.Context, input CreateAccountInput) (AccountRecord, error)
	GetByEmail(ctx context.Context, email string) (AccountRecord, error)
	GetByID(ctx context.Context, id string) (AccountRecord, error)

	// SetPendingOTP overwrites any prior passcode unconditionally; the old
	// code becomes invalid even if it had not expired.
	SetPendingOTP(ctx context.Context, id, code string, expiresAt int64) error
	ConsumeOTP(ctx context.Context, id, submitted string, now int64) (AccountRecord, error)
}

// AccountInfo is the identity payload returned to callers. It never
// includes credential or passcode material.
type AccountInfo struct {
	ID    string
	Name  string
	Email string
}

// LoginResult is returned by [Engine.Login]. A successful password check
// always leaves the attempt pending on the second factor; no session or
// token exists yet.
type LoginResult struct {
	OTPRequired  bool
	OTPExpiresAt time.Time
}

// AuthResult is returned by [Engine.VerifyOTP] and [Engine.CurrentAccount].
// Token is the signed session token minted at verification; it is empty on
// CurrentAccount lookups.
type AuthResult struct {
	Account   AccountInfo
	SessionID string
	Token     string
}
