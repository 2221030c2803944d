// Package rate provides the Redis-backed fixed-window counters behind
// the engine's login throttle.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key
// prefixes:
//   - al:  — login per-identifier
//   - ali: — login per-IP
//
// # What this package must NOT do
//
//   - Decide which operations are throttled (the Engine does).
//   - Be imported outside this module.
package rate
