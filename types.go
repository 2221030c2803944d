package authcore

import (
	"time"

	"github.com/midroc-erp/authcore/rbac"
)

// AuthResult is the public view of a signed-in identity. Returned by
// [Engine.Current], [Engine.Restore], and [Engine.ValidateToken].
type AuthResult struct {
	SessionID  string
	IdentityID string
	Email      string
	Name       string
	Role       rbac.Role
	Department string
	SignedInAt time.Time
}

// LoginResult is returned by [Engine.Login]: the authenticated identity
// plus an access token when the token subsystem is enabled.
type LoginResult struct {
	AuthResult
	Token string
}

// SignupRequest carries a self-registration. The requested role must be
// on the configured allow-list; the account starts pending until an
// administrator approves it.
type SignupRequest struct {
	Name       string
	Email      string
	Password   string
	Role       rbac.Role
	Department string
}

// CreateIdentityRequest is the administrator path: the account is
// created directly in the active partition with no approval step.
type CreateIdentityRequest struct {
	Name       string
	Email      string
	Password   string
	Role       rbac.Role
	Department string
}
