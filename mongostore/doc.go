// Package mongostore provides a MongoDB-backed account store.
//
// It exists for deployments that keep durable account data in MongoDB
// while Redis carries only the volatile session state. The store satisfies
// the same contract as the in-memory and Redis implementations, including
// the sentinel errors the engine maps to its public error set.
//
// Call [Store.EnsureIndexes] once at startup; email uniqueness is enforced
// by a unique index, not by application-level checks.
package mongostore
