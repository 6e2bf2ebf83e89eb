package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	authsvc "github.com/campuscare/authsvc"
)

type recordingSender struct {
	lastBody string
}

func (r *recordingSender) Send(_ context.Context, _, _, body string) error {
	r.lastBody = body
	return nil
}

var otpCodePattern = regexp.MustCompile(`OTP is: (\d+)`)

func newGuardedEngine(t *testing.T) (*authsvc.Engine, string) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	mail := &recordingSender{}

	cfg := authsvc.DefaultConfig()
	cfg.Token.SigningKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1

	engine, err := authsvc.New().WithConfig(cfg).WithRedis(rdb).WithMailer(mail).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	ctx := context.Background()
	if _, err := engine.SignUp(ctx, "Alice", "alice@x.com", "pw123"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if _, err := engine.Login(ctx, "alice@x.com", "pw123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	m := otpCodePattern.FindStringSubmatch(mail.lastBody)
	if m == nil {
		t.Fatal("no passcode captured")
	}
	result, err := engine.VerifyOTP(ctx, "alice@x.com", m[1])
	if err != nil {
		t.Fatalf("VerifyOTP failed: %v", err)
	}

	return engine, result.Token
}

func guardedHandler(t *testing.T, engine *authsvc.Engine) http.Handler {
	t.Helper()

	return Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct, ok := AccountFromContext(r.Context())
		if !ok {
			t.Error("guard passed without injecting the account")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(acct.Email))
	}))
}

func TestGuardAcceptsCookie(t *testing.T) {
	engine, token := newGuardedEngine(t)
	handler := guardedHandler(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "alice@x.com" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestGuardAcceptsBearerToken(t *testing.T) {
	engine, token := newGuardedEngine(t)
	handler := guardedHandler(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGuardRejectsMissingAndForgedTokens(t *testing.T) {
	engine, _ := newGuardedEngine(t)
	handler := guardedHandler(t, engine)

	cases := map[string]func(*http.Request){
		"no credentials": func(*http.Request) {},
		"empty bearer":   func(r *http.Request) { r.Header.Set("Authorization", "Bearer") },
		"forged cookie":  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "forged"}) },
	}
	for name, decorate := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		decorate(req)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}

func TestGuardRejectionBodyIsJSONEnvelope(t *testing.T) {
	engine, _ := newGuardedEngine(t)
	handler := guardedHandler(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", ct)
	}

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("401 body is not JSON: %v\n%s", err, rec.Body.String())
	}
	if body.OK || body.Error != "Unauthorized" {
		t.Fatalf("unexpected 401 body: %+v", body)
	}
}

func TestGuardRejectsLoggedOutSession(t *testing.T) {
	engine, token := newGuardedEngine(t)
	handler := guardedHandler(t, engine)

	if err := engine.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAccountFromContextMissing(t *testing.T) {
	if _, ok := AccountFromContext(context.Background()); ok {
		t.Fatal("expected no account in a bare context")
	}
}
