package authsvc

import "errors"

// Engine-level failure kinds. Each operation returns exactly one of these;
// transports map them onto status codes.
var (
	// ErrDuplicateEmail is returned by SignUp when the normalized email is
	// already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned by Login for both an unknown email
	// and a wrong password, so the error message cannot be used to probe
	// which addresses have accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotFound is returned by ResendOTP when no account exists for
	// the email.
	ErrAccountNotFound = errors.New("account not found")
	// ErrNoPendingOTP is returned by VerifyOTP when the account has no
	// passcode outstanding.
	ErrNoPendingOTP = errors.New("no otp pending")
	// ErrOTPInvalid is returned by VerifyOTP when the submitted code does
	// not match the pending one.
	ErrOTPInvalid = errors.New("invalid otp")
	// ErrOTPExpired is returned by VerifyOTP when the pending code matched
	// but its validity window has passed.
	ErrOTPExpired = errors.New("otp expired")
	// ErrUnauthorized is returned by CurrentAccount when the token does not
	// resolve to a live session and account.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDeliveryFailed reports a mail transport failure. The engine logs it
	// and still treats the triggering login or resend as successful.
	ErrDeliveryFailed = errors.New("otp delivery failed")
	// ErrEngineNotReady is returned when a required collaborator was not
	// wired before use.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// AccountStore contract errors. Implementations return these sentinels (or
// wrap them) so the engine can map persistence outcomes onto the public
// failure kinds above.
var (
	// ErrStoreDuplicateEmail is returned by AccountStore.Create when the
	// email uniqueness constraint is violated.
	ErrStoreDuplicateEmail = errors.New("store: duplicate email")
	// ErrStoreNotFound is returned by account lookups that match nothing.
	ErrStoreNotFound = errors.New("store: account not found")
	// ErrStoreNoPendingOTP is returned by ConsumeOTP when no code is set.
	ErrStoreNoPendingOTP = errors.New("store: no pending otp")
	// ErrStoreOTPMismatch is returned by ConsumeOTP when the submitted code
	// does not equal the stored one.
	ErrStoreOTPMismatch = errors.New("store: otp mismatch")
	// ErrStoreOTPExpired is returned by ConsumeOTP when the stored code
	// matched but its expiry has passed.
	ErrStoreOTPExpired = errors.New("store: otp expired")
	// ErrStoreUnavailable wraps backend connectivity failures.
	ErrStoreUnavailable = errors.New("store: backend unavailable")
)
