// Package jwt signs and parses the compact session token carried in the
// client cookie. The token is a pointer, not an authority: it names a
// session ID that must still resolve in the server-side session store, so
// logout takes effect immediately regardless of the token's lifetime.
//
// # What this package must NOT do
//
//   - Accept any signing algorithm other than the configured HS256 key.
//   - Embed credential or passcode material in claims.
package jwt
