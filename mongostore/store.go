package mongostore

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuscare/authsvc"
)

// accountDoc is the persisted shape of one account.
type accountDoc struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	Active       bool   `bson:"active"`
	OTPCode      string `bson:"otp_code,omitempty"`
	OTPExpiresAt int64  `bson:"otp_expires_at,omitempty"`
	LastLoginAt  int64  `bson:"last_login_at,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
}

func (d *accountDoc) toRecord() authsvc.AccountRecord {
	return authsvc.AccountRecord{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Active:       d.Active,
		OTPCode:      d.OTPCode,
		OTPExpiresAt: d.OTPExpiresAt,
		LastLoginAt:  d.LastLoginAt,
		CreatedAt:    d.CreatedAt,
	}
}

// Store implements authsvc.AccountStore on a MongoDB collection.
type Store struct {
	coll *mongo.Collection
}

// NewStore wraps the given collection.
func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// EnsureIndexes creates the unique email index. Safe to call on every
// startup; index creation is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", authsvc.ErrStoreUnavailable, err)
	}
	return nil
}

// Create inserts a new account. A duplicate key error from the unique
// email index surfaces as ErrStoreDuplicateEmail.
func (s *Store) Create(ctx context.Context, input authsvc.CreateAccountInput) (authsvc.AccountRecord, error) {
	doc := accountDoc{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Active:       true,
		CreatedAt:    time.Now().Unix(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return authsvc.AccountRecord{}, authsvc.ErrStoreDuplicateEmail
		}
		return authsvc.AccountRecord{}, fmt.Errorf("%w: %v", authsvc.ErrStoreUnavailable, err)
	}
	return doc.toRecord(), nil
}

// GetByEmail loads one account by address.
func (s *Store) GetByEmail(ctx context.Context, email string) (authsvc.AccountRecord, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// GetByID loads one account by ID.
func (s *Store) GetByID(ctx context.Context, id string) (authsvc.AccountRecord, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (authsvc.AccountRecord, error) {
	var doc accountDoc
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return authsvc.AccountRecord{}, authsvc.ErrStoreNotFound
		}
		return authsvc.AccountRecord{}, fmt.Errorf("%w: %v", authsvc.ErrStoreUnavailable, err)
	}
	return doc.toRecord(), nil
}

// SetPendingOTP overwrites the passcode fields unconditionally.
func (s *Store) SetPendingOTP(ctx context.Context, id, code string, expiresAt int64) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"otp_code": code, "otp_expires_at": expiresAt},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", authsvc.ErrStoreUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return authsvc.ErrStoreNotFound
	}
	return nil
}

// ConsumeOTP decides the verify outcome from a snapshot, then commits with
// a conditional update matching the exact code it read. A concurrent
// overwrite makes the condition miss and the cycle retries on the fresh
// state.
func (s *Store) ConsumeOTP(ctx context.Context, id, submitted string, now int64) (authsvc.AccountRecord, error) {
	const maxRetries = 4

	for i := 0; i < maxRetries; i++ {
		record, err := s.GetByID(ctx, id)
		if err != nil {
			return authsvc.AccountRecord{}, err
		}
		if record.OTPCode == "" {
			return authsvc.AccountRecord{}, authsvc.ErrStoreNoPendingOTP
		}
		if subtle.ConstantTimeCompare([]byte(record.OTPCode), []byte(submitted)) != 1 {
			return authsvc.AccountRecord{}, authsvc.ErrStoreOTPMismatch
		}
		expired := now > record.OTPExpiresAt

		clear := bson.M{"otp_code": "", "otp_expires_at": 0}
		if !expired {
			clear["last_login_at"] = now
		}
		res, err := s.coll.UpdateOne(ctx,
			bson.M{"_id": id, "otp_code": record.OTPCode},
			bson.M{"$set": clear},
		)
		if err != nil {
			return authsvc.AccountRecord{}, fmt.Errorf("%w: %v", authsvc.ErrStoreUnavailable, err)
		}
		if res.MatchedCount == 0 {
			// Lost the race to another writer; re-read and decide again.
			continue
		}

		if expired {
			return authsvc.AccountRecord{}, authsvc.ErrStoreOTPExpired
		}
		record.OTPCode = ""
		record.OTPExpiresAt = 0
		record.LastLoginAt = now
		return record, nil
	}

	return authsvc.AccountRecord{}, fmt.Errorf("%w: conditional update retries exhausted", authsvc.ErrStoreUnavailable)
}
