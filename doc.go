// Package authcore is the authorization core of the Midroc ERP: a
// role-based access control engine with a Redis-persisted session, an
// account directory with an approval queue, and optional JWT bearer
// tokens for service-to-service calls.
//
// The package is designed for a desktop-style client embedding it
// directly: one Engine holds one signed-in session, persisted under a
// per-installation client slot so a restart restores it. Engine methods
// are safe to call from multiple goroutines after initialization
// through [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (AuthResult, MetricsSnapshot, AuditEvent).
// The authorization tables live in rbac, the account partitions in
// directory, credential hashing in password, snapshot persistence in
// session, and bearer tokens in token. Rate limiting lives under
// internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients, store internals, or encoding details in
//     its public API.
//   - Perform I/O outside of Engine methods (construction via Builder
//     is allocation-only until Build).
//   - Import any sub-package that re-imports authcore (no import
//     cycles).
//
// # Performance contract
//
// The RBAC queries (HasPermission, CanAccessModule, and friends) are
// the hot path: they read the in-memory session snapshot and the frozen
// tables without Redis round-trips. Login, Signup, Restore, and the
// directory operations are allowed Redis round-trips per call.
package authcore
