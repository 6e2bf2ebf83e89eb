package authsvc

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryAccountStore is a mutex-guarded in-memory [AccountStore]. It backs
// tests and the zero-configuration demo mode; nothing survives a restart.
type MemoryAccountStore struct {
	mu      sync.Mutex
	byID    map[string]AccountRecord
	byEmail map[string]string
}

// NewMemoryAccountStore returns an empty store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		byID:    make(map[string]AccountRecord),
		byEmail: make(map[string]string),
	}
}

// Create inserts a new account or fails with ErrStoreDuplicateEmail. The
// email index and the record are written under one lock acquisition, so a
// losing racer observes the winner's row.
func (s *MemoryAccountStore) Create(_ context.Context, input CreateAccountInput) (AccountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[input.Email]; exists {
		return AccountRecord{}, ErrStoreDuplicateEmail
	}

	record := AccountRecord{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Active:       true,
		CreatedAt:    time.Now().Unix(),
	}
	s.byID[record.ID] = record
	s.byEmail[record.Email] = record.ID
	return record, nil
}

// GetByEmail looks an account up by its normalized email.
func (s *MemoryAccountStore) GetByEmail(_ context.Context, email string) (AccountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return AccountRecord{}, ErrStoreNotFound
	}
	return s.byID[id], nil
}

// GetByID looks an account up by its identifier.
func (s *MemoryAccountStore) GetByID(_ context.Context, id string) (AccountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return AccountRecord{}, ErrStoreNotFound
	}
	return record, nil
}

// SetPendingOTP overwrites the passcode sub-state unconditionally.
func (s *MemoryAccountStore) SetPendingOTP(_ context.Context, id, code string, expiresAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return ErrStoreNotFound
	}
	record.OTPCode = code
	record.OTPExpiresAt = expiresAt
	s.byID[id] = record
	return nil
}

// ConsumeOTP applies the verify decision under the store lock: missing
// code, then mismatch, then expiry, in that order. Success clears the
// passcode and stamps the login time.
func (s *MemoryAccountStore) ConsumeOTP(_ context.Context, id, submitted string, now int64) (AccountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return AccountRecord{}, ErrStoreNotFound
	}
	if record.OTPCode == "" {
		return AccountRecord{}, ErrStoreNoPendingOTP
	}
	if subtle.ConstantTimeCompare([]byte(record.OTPCode), []byte(submitted)) != 1 {
		return AccountRecord{}, ErrStoreOTPMismatch
	}
	if now > record.OTPExpiresAt {
		record.OTPCode = ""
		record.OTPExpiresAt = 0
		s.byID[id] = record
		return AccountRecord{}, ErrStoreOTPExpired
	}

	record.OTPCode = ""
	record.OTPExpiresAt = 0
	record.LastLoginAt = now
	s.byID[id] = record
	return record, nil
}
