// Package token manages access-token issuance and verification using
// configured signing keys and strict validation semantics. Tokens carry the
// identity and session identifiers so HTTP handlers embedding the engine can
// authenticate requests without a session-store round trip.
package token
