package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return mr, NewStore(rdb, "as")
}

func testSession(id string) *Session {
	now := time.Now().Unix()
	return &Session{
		SessionID: id,
		AccountID: "acct-1",
		Email:     "alice@x.com",
		Name:      "Alice",
		CreatedAt: now,
		ExpiresAt: now + 3600,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := testSession("sid-1")

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if *out != *in {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestDecodeRejectsCorruptBlobs(t *testing.T) {
	valid, err := Encode(testSession("sid-1"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	cases := map[string][]byte{
		"empty":         {},
		"bad version":   append([]byte{99}, valid[1:]...),
		"truncated":     valid[:len(valid)-3],
		"trailing junk": append(append([]byte{}, valid...), 0xFF),
	}
	for name, data := range cases {
		if _, err := Decode(data); err == nil {
			t.Fatalf("%s: expected decode error", name)
		}
	}
}

func TestSaveAndGet(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	in := testSession("sid-1")
	if err := store.Save(ctx, in, time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if *out != *in {
		t.Fatalf("Get = %+v, want %+v", out, in)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveWithoutTTLPersists(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	in := testSession("sid-1")
	in.ExpiresAt = 0
	if err := store.Save(ctx, in, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if ttl := mr.TTL("as:sess:sid-1"); ttl != 0 {
		t.Fatalf("expected no redis TTL, got %v", ttl)
	}
	if _, err := store.Get(ctx, "sid-1"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
}

func TestGetEvictsExpiredSession(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	in := testSession("sid-1")
	in.ExpiresAt = time.Now().Unix() - 10
	if err := store.Save(ctx, in, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := store.Get(ctx, "sid-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired session, got %v", err)
	}
	if mr.Exists("as:sess:sid-1") {
		t.Fatal("expired blob must be deleted on read")
	}
}

func TestGetEvictsCorruptSession(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	mr.Set("as:sess:bad", "not a session blob")

	if _, err := store.Get(ctx, "bad"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for corrupt blob, got %v", err)
	}
	if mr.Exists("as:sess:bad") {
		t.Fatal("corrupt blob must be deleted on read")
	}
}

func TestDeleteReportsExistence(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testSession("sid-1"), time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	existed, err := store.Delete(ctx, "sid-1")
	if err != nil || !existed {
		t.Fatalf("Delete = %v, %v; want true, nil", existed, err)
	}
	existed, err = store.Delete(ctx, "sid-1")
	if err != nil || existed {
		t.Fatalf("second Delete = %v, %v; want false, nil", existed, err)
	}
}
