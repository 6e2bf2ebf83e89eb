package authsvc

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	accountKeyPrefix       = "acct"
	emailIndexKeyPrefix    = "email"
	accountRecordVersionV1 = 1
)

// RedisAccountStore is a Redis-backed [AccountStore]. Accounts are stored
// as versioned binary blobs keyed by ID, with a separate email index key
// whose create-only write enforces uniqueness. Read-modify-write paths run
// under optimistic WATCH transactions so the passcode sub-state is never
// updated from a stale read.
type RedisAccountStore struct {
	redis  *redis.Client
	prefix string
}

// NewRedisAccountStore wraps the given client. The prefix namespaces keys
// alongside the session store.
func NewRedisAccountStore(client *redis.Client, prefix string) *RedisAccountStore {
	if prefix == "" {
		prefix = "as"
	}
	return &RedisAccountStore{redis: client, prefix: prefix}
}

func (s *RedisAccountStore) accountKey(id string) string {
	return s.prefix + ":" + accountKeyPrefix + ":" + id
}

func (s *RedisAccountStore) emailKey(email string) string {
	return s.prefix + ":" + emailIndexKeyPrefix + ":" + email
}

// Create inserts a new account. The email index is written with SETNX
// inside a transaction watching the index key, so two concurrent signups
// for the same address cannot both succeed.
func (s *RedisAccountStore) Create(ctx context.Context, input CreateAccountInput) (AccountRecord, error) {
	record := AccountRecord{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Active:       true,
		CreatedAt:    time.Now().Unix(),
	}
	encoded, err := encodeAccountRecord(&record)
	if err != nil {
		return AccountRecord{}, err
	}

	const maxRetries = 4
	emailKey := s.emailKey(input.Email)

	for i := 0; i < maxRetries; i++ {
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			exists, err := tx.Exists(ctx, emailKey).Result()
			if err != nil {
				return err
			}
			if exists == 1 {
				return ErrStoreDuplicateEmail
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.SetNX(ctx, emailKey, record.ID, 0)
				pipe.Set(ctx, s.accountKey(record.ID), encoded, 0)
				return nil
			})
			return err
		}, emailKey)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			if errors.Is(err, ErrStoreDuplicateEmail) {
				return AccountRecord{}, err
			}
			return AccountRecord{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return record, nil
	}

	return AccountRecord{}, fmt.Errorf("%w: transaction retries exhausted", ErrStoreUnavailable)
}

// GetByEmail resolves the email index and loads the record.
func (s *RedisAccountStore) GetByEmail(ctx context.Context, email string) (AccountRecord, error) {
	id, err := s.redis.Get(ctx, s.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return AccountRecord{}, ErrStoreNotFound
		}
		return AccountRecord{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return s.GetByID(ctx, id)
}

// GetByID loads and decodes one account blob.
func (s *RedisAccountStore) GetByID(ctx context.Context, id string) (AccountRecord, error) {
	data, err := s.redis.Get(ctx, s.accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return AccountRecord{}, ErrStoreNotFound
		}
		return AccountRecord{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	record, err := decodeAccountRecord(data)
	if err != nil {
		return AccountRecord{}, err
	}
	return *record, nil
}

// SetPendingOTP overwrites the passcode fields under a WATCH transaction.
// Two concurrent issuers still race at the engine level; the store only
// guarantees each write lands on a consistent record (last write wins).
func (s *RedisAccountStore) SetPendingOTP(ctx context.Context, id, code string, expiresAt int64) error {
	return s.update(ctx, id, func(record *AccountRecord) error {
		record.OTPCode = code
		record.OTPExpiresAt = expiresAt
		return nil
	})
}

// ConsumeOTP applies the verify decision transactionally: the decision and
// the clearing write commit together or the transaction retries.
func (s *RedisAccountStore) ConsumeOTP(ctx context.Context, id, submitted string, now int64) (AccountRecord, error) {
	var out AccountRecord
	err := s.update(ctx, id, func(record *AccountRecord) error {
		if record.OTPCode == "" {
			return ErrStoreNoPendingOTP
		}
		if subtle.ConstantTimeCompare([]byte(record.OTPCode), []byte(submitted)) != 1 {
			return ErrStoreOTPMismatch
		}
		expired := now > record.OTPExpiresAt

		record.OTPCode = ""
		record.OTPExpiresAt = 0
		if expired {
			// The stale code is cleared either way; only the success
			// stamp is withheld.
			return ErrStoreOTPExpired
		}
		record.LastLoginAt = now
		out = *record
		return nil
	})
	if err != nil {
		return AccountRecord{}, err
	}
	return out, nil
}

// update runs a read-modify-write cycle under WATCH. A mutate error other
// than the sentinel ErrStoreOTPExpired aborts without writing; expiry both
// writes the cleared record and propagates the sentinel.
func (s *RedisAccountStore) update(ctx context.Context, id string, mutate func(*AccountRecord) error) error {
	const maxRetries = 4
	key := s.accountKey(id)

	for i := 0; i < maxRetries; i++ {
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return ErrStoreNotFound
				}
				return err
			}
			record, err := decodeAccountRecord(data)
			if err != nil {
				return err
			}

			mutateErr := mutate(record)
			if mutateErr != nil && !errors.Is(mutateErr, ErrStoreOTPExpired) {
				return mutateErr
			}

			encoded, err := encodeAccountRecord(record)
			if err != nil {
				return err
			}
			if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, 0)
				return nil
			}); err != nil {
				return err
			}
			return mutateErr
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, ErrStoreNotFound),
				errors.Is(err, ErrStoreNoPendingOTP),
				errors.Is(err, ErrStoreOTPMismatch),
				errors.Is(err, ErrStoreOTPExpired):
				return err
			default:
				return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
		}
		return nil
	}

	return fmt.Errorf("%w: transaction retries exhausted", ErrStoreUnavailable)
}

func encodeAccountRecord(record *AccountRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(accountRecordVersionV1)
	if record.Active {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}

	for _, field := range []string{record.ID, record.Name, record.Email, record.PasswordHash, record.OTPCode} {
		if len(field) > 65535 {
			return nil, errors.New("account field too long")
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(field))); err != nil {
			return nil, err
		}
		buf.WriteString(field)
	}

	for _, ts := range []int64{record.OTPExpiresAt, record.LastLoginAt, record.CreatedAt} {
		if err := binary.Write(&buf, binary.BigEndian, ts); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func decodeAccountRecord(data []byte) (*AccountRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != accountRecordVersionV1 {
		return nil, errors.New("invalid account record version")
	}

	active, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	record := &AccountRecord{Active: active == 1}

	for _, field := range []*string{&record.ID, &record.Name, &record.Email, &record.PasswordHash, &record.OTPCode} {
		var n uint16
		if err := binary.Read(reader, binary.BigEndian, &n); err != nil {
			return nil, err
		}
		raw := make([]byte, n)
		if _, err := io.ReadFull(reader, raw); err != nil {
			return nil, err
		}
		*field = string(raw)
	}

	for _, ts := range []*int64{&record.OTPExpiresAt, &record.LastLoginAt, &record.CreatedAt} {
		if err := binary.Read(reader, binary.BigEndian, ts); err != nil {
			return nil, err
		}
	}

	return record, nil
}
