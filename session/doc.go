// Package session provides Redis-backed session persistence and compact
// binary session encoding for the authentication hot path.
//
// # Binary encoding
//
// Snapshots are stored in Redis as a compact binary format (schema
// versions v1–v2) with forward migration on read. The encoder is
// append-only: new versions add fields but never reinterpret old ones.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the [Snapshot]
// model. It does NOT evaluate permissions, revalidate identities, or
// enforce authentication policy — those responsibilities belong to the
// Engine.
//
// # What this package must NOT do
//
//   - Import authcore, directory, or rbac (no upward imports).
//   - Perform application-level authorization decisions.
//   - Store plaintext secrets in [Snapshot] fields.
package session
