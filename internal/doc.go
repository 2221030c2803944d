// Package internal contains helpers that are intentionally private to
// this module: secure session-identifier generation and the rate
// sub-package.
//
// # Sub-packages
//
//   - rate — Redis-backed fixed-window login throttle primitives
//
// # What this package must NOT do
//
//   - Export types that appear in the public API.
//   - Be imported by any package outside this module.
package internal
