package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/midroc-erp/authcore/directory"
	"github.com/midroc-erp/authcore/rbac"
)

// IsAuthenticated reports whether a session is signed in.
func (e *Engine) IsAuthenticated() bool {
	if e == nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current != nil
}

// Current returns the signed-in identity, or false when signed out.
func (e *Engine) Current() (AuthResult, bool) {
	if e == nil {
		return AuthResult{}, false
	}
	e.mu.RLock()
	snap := e.current
	e.mu.RUnlock()
	if snap == nil {
		return AuthResult{}, false
	}
	return authResultFromSnapshot(snap), true
}

// HasRole reports whether the signed-in session holds the role. Signed
// out always answers false.
func (e *Engine) HasRole(role rbac.Role) bool {
	if e == nil {
		return false
	}
	e.mu.RLock()
	snap := e.current
	e.mu.RUnlock()
	return snap != nil && rbac.Role(snap.Role) == role
}

// HasPermission reports whether the signed-in session's role grants the
// permission token. Signed out, unknown roles, and unknown permissions
// all deny.
func (e *Engine) HasPermission(perm rbac.Permission) bool {
	if e == nil {
		return false
	}
	e.mu.RLock()
	snap := e.current
	e.mu.RUnlock()
	return snap != nil && e.tables.HasPermission(rbac.Role(snap.Role), perm)
}

// CanAccessModule reports whether the signed-in session may view the
// ERP module. Signed out and unknown modules deny.
func (e *Engine) CanAccessModule(module rbac.Module) bool {
	if e == nil {
		return false
	}
	e.mu.RLock()
	snap := e.current
	e.mu.RUnlock()
	return snap != nil && e.tables.AllowsModule(module, rbac.Role(snap.Role))
}

// Permissions returns the signed-in session's permission tokens,
// sorted. Signed out yields an empty slice.
func (e *Engine) Permissions() []rbac.Permission {
	if e == nil {
		return []rbac.Permission{}
	}
	e.mu.RLock()
	snap := e.current
	e.mu.RUnlock()
	if snap == nil {
		return []rbac.Permission{}
	}
	return e.tables.PermissionsFor(rbac.Role(snap.Role))
}

// AccessibleModules returns the modules the signed-in session may view,
// in enumeration order. Signed out yields an empty slice.
func (e *Engine) AccessibleModules() []rbac.Module {
	if e == nil {
		return []rbac.Module{}
	}
	e.mu.RLock()
	snap := e.current
	e.mu.RUnlock()

	out := []rbac.Module{}
	if snap == nil {
		return out
	}
	role := rbac.Role(snap.Role)
	for _, m := range rbac.Modules() {
		if e.tables.AllowsModule(m, role) {
			out = append(out, m)
		}
	}
	return out
}

// ValidateToken verifies a bearer token issued by [Engine.Login] and
// revalidates its subject against the directory. It never touches the
// engine's own session state, so services can validate tokens for any
// identity.
func (e *Engine) ValidateToken(ctx context.Context, tokenStr string) (*AuthResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.tokens == nil {
		return nil, ErrTokensDisabled
	}

	claims, err := e.tokens.Parse(tokenStr)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	dctx, cancel := e.dirCtx(ctx)
	ident, err := e.directory.FindByID(dctx, claims.UID)
	cancel()
	if err != nil {
		if errors.Is(err, directory.ErrIdentityNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !ident.Approved {
		return nil, ErrTokenInvalid
	}

	var signedInAt time.Time
	if claims.IssuedAt != nil {
		signedInAt = claims.IssuedAt.Time.UTC()
	}

	return &AuthResult{
		SessionID:  claims.SID,
		IdentityID: ident.ID,
		Email:      ident.Email,
		Name:       ident.Name,
		Role:       ident.Role,
		Department: ident.Department,
		SignedInAt: signedInAt,
	}, nil
}
