package authsvc

import (
	"context"
	"errors"
)

// SignUp registers a new account. The email is normalized to lower case
// before the uniqueness check, so addresses differing only in case collide.
// The password is hashed before the store is touched; the plaintext is
// never persisted.
//
// Returns [ErrDuplicateEmail] when the address is already registered and
// [ErrInvalidCredentials] when any field is empty.
func (e *Engine) SignUp(ctx context.Context, name, email, plaintext string) (AccountInfo, error) {
	if e == nil || e.passwordHash == nil || e.accounts == nil {
		return AccountInfo{}, ErrEngineNotReady
	}
	if name == "" || email == "" || plaintext == "" {
		return AccountInfo{}, ErrInvalidCredentials
	}

	hash, err := e.passwordHash.Hash(plaintext)
	if err != nil {
		return AccountInfo{}, err
	}
	plaintext = ""

	record, err := e.accounts.Create(ctx, CreateAccountInput{
		Name:         name,
		Email:        normalizeEmail(email),
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrStoreDuplicateEmail) {
			e.metricInc(MetricSignupDuplicate)
			return AccountInfo{}, ErrDuplicateEmail
		}
		return AccountInfo{}, err
	}

	e.metricInc(MetricSignupSuccess)

	return AccountInfo{
		ID:    record.ID,
		Name:  record.Name,
		Email: record.Email,
	}, nil
}
