// Package httpapi is the JSON transport for the authentication engine.
//
// It maps each engine flow to one route, translates engine errors into
// HTTP status codes, and manages the session cookie. All decisions are
// delegated to the engine; handlers only validate request shape.
//
// # Routes
//
//   - POST /signup      — register an account (201, 409 on duplicate)
//   - POST /login       — password factor, emails a passcode (200, 401)
//   - POST /verify-otp  — passcode factor, sets the session cookie
//   - POST /resend-otp  — reissue a passcode (200, 404 unknown address)
//   - POST /logout      — destroy the session (always 200)
//   - GET  /protected   — session-guarded resource
//   - GET  /health      — liveness probe
//   - GET  /metrics     — Prometheus exposition
//
// # What this package must NOT do
//
//   - Touch Redis or the account store directly.
//   - Contain authentication decisions; a handler either forwards to the
//     engine or rejects a malformed request.
package httpapi
