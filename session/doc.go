// Package session provides Redis-backed session persistence with a compact
// binary encoding.
//
// # Binary encoding
//
// Sessions are stored as a versioned binary blob (currently v1). The
// encoder is append-only: future versions may add fields but never
// reinterpret old ones.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the [Session]
// model. It does not interpret tokens or decide authorization — those
// responsibilities belong to the engine.
//
// # What this package must NOT do
//
//   - Import authsvc or jwt (no upward imports).
//   - Store credential or passcode material in [Session] fields.
package session
