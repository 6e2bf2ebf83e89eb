// Package authsvc provides a two-step authentication engine: password login
// followed by an emailed one-time passcode, with server-held sessions that
// guard access to protected resources.
//
// The flow is:
//
//  1. [Engine.SignUp] registers an account with an argon2id password hash.
//  2. [Engine.Login] verifies the password and issues a 6-digit passcode,
//     delivered out of band through a [mailer.Sender].
//  3. [Engine.VerifyOTP] consumes the passcode, creates a session, and
//     returns a signed session token suitable for a cookie.
//  4. [Engine.CurrentAccount] authorizes later requests by resolving the
//     token back to the owning account.
//  5. [Engine.Logout] destroys the session.
//
// Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// authsvc is the public surface. It exposes [Engine], [Builder], [Config],
// the [AccountStore] contract, and value types (AccountInfo, AuthResult,
// MetricsSnapshot). Session persistence lives in the session sub-package,
// token signing in jwt, delivery in mailer; none of them import authsvc
// back.
//
// # What this package must NOT do
//
//   - Hold global mutable state — every store and collaborator is injected.
//   - Store or log plaintext passwords or passcodes.
//   - Fail a login because delivery failed: mail is a best-effort side
//     effect whose outcome is logged, never returned.
package authsvc
