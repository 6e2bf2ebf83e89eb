package authsvc

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/campuscare/authsvc/internal"
	"github.com/campuscare/authsvc/mailer"
)

// Login checks the password factor and, on success, issues a one-time
// passcode to the account's email address. The caller is NOT authenticated
// after Login; it must follow up with [Engine.VerifyOTP].
//
// Unknown addresses and wrong passwords both return
// [ErrInvalidCredentials]; the response does not reveal which one it was.
// A repeated Login overwrites any passcode still pending.
//
// Passcode delivery is best-effort: a failed send is logged and counted
// but the login step still succeeds, so the account is not locked out of
// the resend path.
func (e *Engine) Login(ctx context.Context, email, plaintext string) (LoginResult, error) {
	if e == nil || e.passwordHash == nil || e.accounts == nil {
		return LoginResult{}, ErrEngineNotReady
	}
	if email == "" || plaintext == "" {
		e.metricInc(MetricLoginFailure)
		return LoginResult{}, ErrInvalidCredentials
	}

	record, err := e.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			e.metricInc(MetricLoginFailure)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	ok, err := e.passwordHash.Verify(plaintext, record.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricLoginFailure)
		return LoginResult{}, ErrInvalidCredentials
	}
	plaintext = ""

	expiresAt, err := e.issuePasscode(ctx, record, false)
	if err != nil {
		return LoginResult{}, err
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricOTPIssued)

	return LoginResult{
		OTPRequired:  true,
		OTPExpiresAt: expiresAt,
	}, nil
}

// ResendOTP issues a fresh passcode for an account that already passed the
// password step. The previous code, expired or not, is overwritten.
//
// Unlike Login, an unknown address returns [ErrAccountNotFound]: the
// caller already proved knowledge of the address by logging in, so there
// is nothing left to hide.
func (e *Engine) ResendOTP(ctx context.Context, email string) (LoginResult, error) {
	if e == nil || e.accounts == nil {
		return LoginResult{}, ErrEngineNotReady
	}
	if email == "" {
		return LoginResult{}, ErrAccountNotFound
	}

	record, err := e.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return LoginResult{}, ErrAccountNotFound
		}
		return LoginResult{}, err
	}

	expiresAt, err := e.issuePasscode(ctx, record, true)
	if err != nil {
		return LoginResult{}, err
	}

	e.metricInc(MetricOTPIssued)
	e.metricInc(MetricOTPResent)

	return LoginResult{
		OTPRequired:  true,
		OTPExpiresAt: expiresAt,
	}, nil
}

// issuePasscode generates, stores, and mails a passcode. Storage failure
// aborts; delivery failure does not.
func (e *Engine) issuePasscode(ctx context.Context, record AccountRecord, resend bool) (time.Time, error) {
	code, err := internal.NewOTPCode(e.config.OTP.Digits)
	if err != nil {
		return time.Time{}, err
	}

	expiresAt := time.Now().Add(e.config.OTP.TTL)
	if err := e.accounts.SetPendingOTP(ctx, record.ID, code, expiresAt.Unix()); err != nil {
		return time.Time{}, err
	}

	subject, body := mailer.OTPMessage(mailer.OTPParams{
		Name:     record.Name,
		Code:     code,
		Validity: e.config.OTP.TTL,
		Resend:   resend,
	})
	if err := e.mail.Send(ctx, record.Email, subject, body); err != nil {
		e.metricInc(MetricDeliveryFailure)
		log.Print("authsvc: passcode delivery failed")
	}

	return expiresAt, nil
}
