// Package directory maintains the account directory of the ERP: the set of
// known identities partitioned into active (approved) and pending
// (awaiting administrative approval) collections.
//
// # Design
//
// The [Store] interface is the injection point for the Engine; there is no
// package-level state. Two implementations ship with the library:
//
//   - [Memory]: mutex-guarded maps, intended for tests and single-process
//     demo deployments.
//   - [Redis]: identities as JSON blobs with the email-uniqueness
//     constraint enforced atomically via SETNX on a normalized email key,
//     so concurrent registrations with the same email cannot both win.
//
// # Invariants
//
//   - An email is unique across the union of active and pending identities.
//   - A pending identity leaves the pending partition exactly once: either
//     approved (moved to active, flag set) or rejected (removed for good).
//   - Active identities are never deleted by this package.
package directory
