package authsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/campuscare/authsvc/session"
)

// newMemoryBackedEngine wires an engine over a MemoryAccountStore so tests
// can mutate account rows underneath live sessions.
func newMemoryBackedEngine(t *testing.T) (*Engine, *MemoryAccountStore, *captureSender) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	t.Cleanup(mr.Close)
	t.Cleanup(func() { _ = rdb.Close() })

	accounts := NewMemoryAccountStore()
	mail := &captureSender{}

	engine, err := New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		WithAccountStore(accounts).
		WithMailer(mail).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, accounts, mail
}

func TestCurrentAccountAfterVerify(t *testing.T) {
	engine, mail, done := newTestEngine(t, testConfig())
	defer done()

	signUpTestAccount(t, engine, "Alice", "alice@x.com", "pw123")
	result := loginAndVerify(t, engine, mail, "alice@x.com", "pw123")

	acct, err := engine.CurrentAccount(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("CurrentAccount failed: %v", err)
	}
	if acct.Name != "Alice" || acct.Email != "alice@x.com" {
		t.Fatalf("unexpected account: %+v", acct)
	}
}

func TestCurrentAccountRejectsGarbageToken(t *testing.T) {
	engine, _, done := newTestEngine(t, testConfig())
	defer done()

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := engine.CurrentAccount(context.Background(), token); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %q, got %v", token, err)
		}
	}
}

func TestCurrentAccountRejectsForeignSignature(t *testing.T) {
	engine, mail, done := newTestEngine(t, testConfig())
	defer done()

	otherCfg := testConfig()
	otherCfg.Token.SigningKey = []byte("ffffffffffffffffffffffffffffffff")
	other, otherMail, otherDone := newTestEngine(t, otherCfg)
	defer otherDone()

	signUpTestAccount(t, engine, "Alice", "alice@x.com", "pw123")
	signUpTestAccount(t, other, "Alice", "alice@x.com", "pw123")
	foreign := loginAndVerify(t, other, otherMail, "alice@x.com", "pw123")
	_ = mail

	if _, err := engine.CurrentAccount(context.Background(), foreign.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for token signed with another key, got %v", err)
	}
}

func TestCurrentAccountRejectsDeletedAccount(t *testing.T) {
	engine, accounts, mail := newMemoryBackedEngine(t)

	acct := signUpTestAccount(t, engine, "Alice", "alice@x.com", "pw123")
	result := loginAndVerify(t, engine, mail, "alice@x.com", "pw123")

	accounts.mu.Lock()
	delete(accounts.byID, acct.ID)
	delete(accounts.byEmail, acct.Email)
	accounts.mu.Unlock()

	if _, err := engine.CurrentAccount(context.Background(), result.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for a deleted account, got %v", err)
	}

	// The orphaned session record must be removed, not just rejected.
	if _, err := engine.sessionStore.Get(context.Background(), result.SessionID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected orphaned session to be deleted, got %v", err)
	}
}

func TestCurrentAccountRejectsInactiveAccount(t *testing.T) {
	engine, accounts, mail := newMemoryBackedEngine(t)

	acct := signUpTestAccount(t, engine, "Alice", "alice@x.com", "pw123")
	result := loginAndVerify(t, engine, mail, "alice@x.com", "pw123")

	accounts.mu.Lock()
	record := accounts.byID[acct.ID]
	record.Active = false
	accounts.byID[acct.ID] = record
	accounts.mu.Unlock()

	if _, err := engine.CurrentAccount(context.Background(), result.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for an inactive account, got %v", err)
	}

	// The account still exists, so the session stays for a reactivation.
	if _, err := engine.sessionStore.Get(context.Background(), result.SessionID); err != nil {
		t.Fatalf("session must survive a deactivation: %v", err)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	engine, mail, done := newTestEngine(t, testConfig())
	defer done()

	signUpTestAccount(t, engine, "Alice", "alice@x.com", "pw123")
	result := loginAndVerify(t, engine, mail, "alice@x.com", "pw123")

	if err := engine.Logout(context.Background(), result.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := engine.CurrentAccount(context.Background(), result.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	engine, mail, done := newTestEngine(t, testConfig())
	defer done()

	signUpTestAccount(t, engine, "Alice", "alice@x.com", "pw123")
	result := loginAndVerify(t, engine, mail, "alice@x.com", "pw123")

	if err := engine.Logout(context.Background(), result.Token); err != nil {
		t.Fatalf("first Logout failed: %v", err)
	}
	if err := engine.Logout(context.Background(), result.Token); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}
	if err := engine.Logout(context.Background(), "garbage"); err != nil {
		t.Fatalf("Logout with a dead token failed: %v", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	engine, mail, done := newTestEngine(t, testConfig())
	defer done()

	signUpTestAccount(t, engine, "Alice", "alice@x.com", "pw123")
	first := loginAndVerify(t, engine, mail, "alice@x.com", "pw123")
	second := loginAndVerify(t, engine, mail, "alice@x.com", "pw123")

	if first.SessionID == second.SessionID {
		t.Fatal("expected distinct session ids")
	}

	if err := engine.Logout(context.Background(), first.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := engine.CurrentAccount(context.Background(), second.Token); err != nil {
		t.Fatalf("second session must survive the first's logout: %v", err)
	}
}
