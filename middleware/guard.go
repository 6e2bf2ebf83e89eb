package middleware

import (
	"context"
	"net/http"
	"strings"

	authsvc "github.com/campuscare/authsvc"
)

// SessionCookieName is the cookie the guard reads the session token from.
const SessionCookieName = "session"

type accountContextKey struct{}

// AccountFromContext returns the account injected by [Guard], if any.
func AccountFromContext(ctx context.Context) (authsvc.AccountInfo, bool) {
	acct, ok := ctx.Value(accountContextKey{}).(authsvc.AccountInfo)
	return acct, ok
}

// Guard wraps a handler with session authorization. The token is taken
// from the session cookie, falling back to an Authorization Bearer header
// for non-browser clients. Requests that fail authorization get 401 and
// never reach the wrapped handler.
func Guard(engine *authsvc.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				rejectUnauthorized(w)
				return
			}

			token, ok := RequestToken(r)
			if !ok {
				rejectUnauthorized(w)
				return
			}

			acct, err := engine.CurrentAccount(r.Context(), token)
			if err != nil {
				rejectUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), accountContextKey{}, acct)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rejectUnauthorized answers in the same JSON envelope the rest of the API
// speaks, so clients can parse every 401 body the same way.
func rejectUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"ok":false,"error":"Unauthorized"}` + "\n"))
}

// RequestToken extracts the session token from a request: the session
// cookie first, then an Authorization Bearer header.
func RequestToken(r *http.Request) (string, bool) {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
