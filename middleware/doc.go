// Package middleware exposes HTTP middleware adapters for the ERP's
// service endpoints, built on top of authcore.Engine token validation
// and the rbac tables.
//
// # Guards
//
//   - [Guard] — verifies the bearer token and injects the identity.
//   - [RequirePermission] — Guard plus a permission-token check.
//   - [RequireModule] — Guard plus a module-access check.
//
// Each guard reads the Authorization header, calls
// Engine.ValidateToken, and injects the validated identity into the
// request context for [AuthResultFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated
// to the engine and the frozen rbac tables.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond what the rbac tables answer.
package middleware
