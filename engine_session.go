package authsvc

import (
	"context"
	"errors"

	"github.com/campuscare/authsvc/session"
)

// CurrentAccount authorizes a session token and returns the account it
// belongs to. The token is parsed first; the named session must still
// exist in the store, and the account must still exist in the account
// store. Any failure along that chain collapses to [ErrUnauthorized].
func (e *Engine) CurrentAccount(ctx context.Context, token string) (AccountInfo, error) {
	if e == nil || e.sessionStore == nil || e.tokens == nil || e.accounts == nil {
		return AccountInfo{}, ErrEngineNotReady
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		e.metricInc(MetricAccessDenied)
		return AccountInfo{}, ErrUnauthorized
	}

	sess, err := e.sessionStore.Get(ctx, claims.SID)
	if err != nil {
		e.metricInc(MetricAccessDenied)
		return AccountInfo{}, ErrUnauthorized
	}
	if sess.AccountID != claims.UID {
		e.metricInc(MetricAccessDenied)
		return AccountInfo{}, ErrUnauthorized
	}

	// The session may outlive the account; re-check the account store so a
	// deleted account loses access immediately.
	record, err := e.accounts.GetByID(ctx, sess.AccountID)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			_, _ = e.sessionStore.Delete(ctx, sess.SessionID)
		}
		e.metricInc(MetricAccessDenied)
		return AccountInfo{}, ErrUnauthorized
	}
	if !record.Active {
		e.metricInc(MetricAccessDenied)
		return AccountInfo{}, ErrUnauthorized
	}

	e.metricInc(MetricAccessAllowed)

	return AccountInfo{
		ID:    record.ID,
		Name:  record.Name,
		Email: record.Email,
	}, nil
}

// Logout destroys the session named by the token. Logout is idempotent:
// an invalid token or an already-destroyed session is not an error.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if e == nil || e.sessionStore == nil || e.tokens == nil {
		return ErrEngineNotReady
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		return nil
	}

	existed, err := e.sessionStore.Delete(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, session.ErrRedisUnavailable) {
			return err
		}
		return nil
	}
	if existed {
		e.metricInc(MetricSessionDestroyed)
	}
	return nil
}
