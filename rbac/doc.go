// Package rbac holds the static authorization tables of the ERP: the
// closed role enumeration, the permission token set, the navigable module
// identifiers, and the two lookup tables (role to permissions, module to
// allowed roles).
//
// # Design
//
// Tables are assembled once, validated against the closed sets, and frozen
// inside a [Registry]. After construction every lookup is a read-only map
// access: deterministic, allocation-light, and total over the enumeration.
// Unknown roles or modules fail open to "no access" — an empty set or
// false — and never panic.
//
// # What this package must NOT do
//
//   - Perform I/O or consult any store.
//   - Mutate tables after construction.
//   - Import any sibling package.
package rbac
