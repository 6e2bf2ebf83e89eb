package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when no live session exists for the ID.
var ErrNotFound = errors.New("session not found")

// ErrRedisUnavailable wraps backend connectivity failures.
var ErrRedisUnavailable = errors.New("session redis unavailable")

// Store persists sessions in Redis under "<prefix>:<session id>". A
// positive lifetime is enforced twice: as a Redis TTL and as an ExpiresAt
// check on read, so a store without TTL support degrades to lazy expiry.
type Store struct {
	redis  *redis.Client
	prefix string
}

// NewStore wraps the given client. The prefix namespaces keys so the
// account store can share the same Redis.
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "as"
	}
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) key(sessionID string) string {
	return s.prefix + ":sess:" + sessionID
}

// Save writes the session. ttl <= 0 persists it without expiry.
func (s *Store) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	encoded, err := Encode(sess)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.redis.Set(ctx, s.key(sess.SessionID), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Get loads a session, deleting and reporting ErrNotFound for blobs whose
// recorded expiry has passed.
func (s *Store) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		// A corrupt blob is unrecoverable; drop it so the key
		// doesn't wedge the account's cookie forever.
		_, _ = s.redis.Del(ctx, s.key(sessionID)).Result()
		return nil, ErrNotFound
	}
	if sess.Expired(time.Now().Unix()) {
		_, _ = s.redis.Del(ctx, s.key(sessionID)).Result()
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes the session and reports whether it existed. Deleting an
// absent session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.redis.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}
