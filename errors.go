package authcore

import (
	"errors"

	"github.com/midroc-erp/authcore/directory"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password. Deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPendingApproval is returned when the credentials are correct but
	// the account has not been approved yet.
	ErrPendingApproval = errors.New("account pending approval")
	// ErrLoginRateLimited is returned when the login attempt budget for
	// the identifier or IP is exhausted.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrNotAuthenticated is returned by operations that need a signed-in
	// session when there is none.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrPermissionDenied is returned when the signed-in identity lacks
	// the permission an operation requires.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrSignupDisabled is returned by Signup when self-registration is
	// turned off in the configuration.
	ErrSignupDisabled = errors.New("signup disabled")
	// ErrSignupInvalid is returned when a signup request is missing
	// required fields.
	ErrSignupInvalid = errors.New("invalid signup request")
	// ErrRoleInvalid is returned when a requested role is unknown or not
	// allowed for the operation.
	ErrRoleInvalid = errors.New("invalid role")
	// ErrPasswordPolicy is returned when a password fails the configured
	// policy.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrTokensDisabled is returned by token operations when the token
	// subsystem is not configured.
	ErrTokensDisabled = errors.New("tokens disabled")
	// ErrTokenInvalid is returned when an access token fails verification.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrEngineNotReady guards against use of a zero-value or closed Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// Directory sentinels re-exported so embedding applications rarely need
// to import the directory package for error checks.
var (
	ErrDuplicateEmail   = directory.ErrDuplicateEmail
	ErrIdentityNotFound = directory.ErrIdentityNotFound
)
