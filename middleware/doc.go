// Package middleware exposes HTTP middleware adapters for session-cookie
// authorization built on top of authsvc.Engine.
//
// # Guards
//
//   - [Guard] — reads the session cookie (or a Bearer token), calls
//     Engine.CurrentAccount, and injects the account into the request
//     context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authorization logic itself — all decisions are delegated to
// Engine.CurrentAccount.
//
// # What this package must NOT do
//
//   - Parse or create session tokens directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from
//     Engine.CurrentAccount.
package middleware
