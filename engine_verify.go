package authsvc

import (
	"context"
	"errors"
	"time"

	"github.com/campuscare/authsvc/internal"
	"github.com/campuscare/authsvc/session"
)

// VerifyOTP completes the second factor. On success the pending passcode
// is consumed, the account's last-login timestamp is stamped, and a fresh
// session is created; the returned token names that session.
//
// Failure order is fixed: no pending passcode is reported before a code
// mismatch, and a mismatch before expiry. An expired code is cleared on
// detection, so the next attempt reports [ErrNoPendingOTP] rather than
// [ErrOTPExpired] again.
func (e *Engine) VerifyOTP(ctx context.Context, email, code string) (AuthResult, error) {
	if e == nil || e.accounts == nil || e.sessionStore == nil || e.tokens == nil {
		return AuthResult{}, ErrEngineNotReady
	}
	if email == "" || code == "" {
		return AuthResult{}, ErrNoPendingOTP
	}

	record, err := e.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return AuthResult{}, ErrNoPendingOTP
		}
		return AuthResult{}, err
	}

	now := time.Now()
	record, err = e.accounts.ConsumeOTP(ctx, record.ID, code, now.Unix())
	if err != nil {
		return AuthResult{}, e.mapConsumeError(err)
	}

	sid, err := internal.NewSessionID()
	if err != nil {
		return AuthResult{}, err
	}
	sessionID := sid.String()

	lifetime := e.config.Session.Lifetime
	sess := &session.Session{
		SessionID: sessionID,
		AccountID: record.ID,
		Email:     record.Email,
		Name:      record.Name,
		CreatedAt: now.Unix(),
	}
	if lifetime > 0 {
		sess.ExpiresAt = now.Add(lifetime).Unix()
	}

	if err := e.sessionStore.Save(ctx, sess, lifetime); err != nil {
		return AuthResult{}, err
	}

	token, err := e.tokens.Create(sessionID, record.ID, record.Email, lifetime)
	if err != nil {
		return AuthResult{}, err
	}

	e.metricInc(MetricOTPVerified)
	e.metricInc(MetricSessionCreated)

	return AuthResult{
		Account: AccountInfo{
			ID:    record.ID,
			Name:  record.Name,
			Email: record.Email,
		},
		SessionID: sessionID,
		Token:     token,
	}, nil
}

func (e *Engine) mapConsumeError(err error) error {
	switch {
	case errors.Is(err, ErrStoreNoPendingOTP):
		return ErrNoPendingOTP
	case errors.Is(err, ErrStoreOTPMismatch):
		e.metricInc(MetricOTPInvalid)
		return ErrOTPInvalid
	case errors.Is(err, ErrStoreOTPExpired):
		e.metricInc(MetricOTPExpired)
		return ErrOTPExpired
	case errors.Is(err, ErrStoreNotFound):
		return ErrNoPendingOTP
	default:
		return err
	}
}
