package authcore

import (
	"context"
	"errors"

	"github.com/midroc-erp/authcore/directory"
	"github.com/midroc-erp/authcore/rbac"
)

// requirePermission returns the signed-in snapshot when the session
// owns perm, and the appropriate sentinel otherwise. Permission denials
// are counted and audited here so every privileged entry point reports
// the same way.
func (e *Engine) requirePermission(ctx context.Context, perm rbac.Permission) (actorID, actorEmail string, err error) {
	e.mu.RLock()
	snap := e.current
	e.mu.RUnlock()

	if snap == nil {
		return "", "", ErrNotAuthenticated
	}

	if !e.tables.HasPermission(rbac.Role(snap.Role), perm) {
		e.metricInc(MetricPermissionDenied)
		e.emitAudit(ctx, auditEventPermissionDenied, false, snap.IdentityID, snap.Email, snap.SessionID, ErrPermissionDenied, func() map[string]string {
			return map[string]string{
				"permission": string(perm),
			}
		})
		return "", "", ErrPermissionDenied
	}

	return snap.IdentityID, snap.Email, nil
}

// PendingIdentities lists accounts awaiting approval, newest first.
// Requires the manage-users permission.
func (e *Engine) PendingIdentities(ctx context.Context) ([]directory.Identity, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if _, _, err := e.requirePermission(ctx, rbac.PermManageUsers); err != nil {
		return nil, err
	}

	dctx, cancel := e.dirCtx(ctx)
	defer cancel()
	return e.directory.ListPending(dctx)
}

// ApproveIdentity activates a pending account so it can sign in.
// Requires the manage-users permission.
func (e *Engine) ApproveIdentity(ctx context.Context, id string) (directory.Identity, error) {
	if e == nil {
		return directory.Identity{}, ErrEngineNotReady
	}
	actorID, _, err := e.requirePermission(ctx, rbac.PermManageUsers)
	if err != nil {
		return directory.Identity{}, err
	}

	dctx, cancel := e.dirCtx(ctx)
	ident, err := e.directory.Approve(dctx, id)
	cancel()
	if err != nil {
		return directory.Identity{}, err
	}

	e.metricInc(MetricIdentityApproved)
	e.emitAudit(ctx, auditEventIdentityApproved, true, ident.ID, ident.Email, "", nil, func() map[string]string {
		return map[string]string{
			"actor": actorID,
			"role":  string(ident.Role),
		}
	})

	return ident, nil
}

// RejectIdentity removes a pending account permanently, freeing its
// email for a fresh signup. Requires the manage-users permission.
func (e *Engine) RejectIdentity(ctx context.Context, id string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	actorID, _, err := e.requirePermission(ctx, rbac.PermManageUsers)
	if err != nil {
		return err
	}

	dctx, cancel := e.dirCtx(ctx)
	rejected, err := e.directory.FindByID(dctx, id)
	if err == nil {
		err = e.directory.Reject(dctx, id)
	}
	cancel()
	if err != nil {
		return err
	}

	e.metricInc(MetricIdentityRejected)
	e.emitAudit(ctx, auditEventIdentityRejected, true, rejected.ID, rejected.Email, "", nil, func() map[string]string {
		return map[string]string{
			"actor": actorID,
		}
	})

	return nil
}

// CreateIdentity provisions an account that is active immediately,
// skipping the approval queue. Unlike Signup it may assign any valid
// role, including admin. Requires the manage-users permission.
func (e *Engine) CreateIdentity(ctx context.Context, req CreateIdentityRequest) (directory.Identity, error) {
	if e == nil || e.hasher == nil {
		return directory.Identity{}, ErrEngineNotReady
	}
	actorID, _, err := e.requirePermission(ctx, rbac.PermManageUsers)
	if err != nil {
		return directory.Identity{}, err
	}

	email := directory.NormalizeEmail(req.Email)
	if req.Name == "" || email == "" {
		return directory.Identity{}, ErrSignupInvalid
	}
	if !req.Role.Valid() {
		return directory.Identity{}, ErrRoleInvalid
	}
	if len(req.Password) < e.config.Password.MinLength {
		return directory.Identity{}, ErrPasswordPolicy
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return directory.Identity{}, ErrPasswordPolicy
	}

	dctx, cancel := e.dirCtx(ctx)
	ident, err := e.directory.CreateActive(dctx, directory.CreateInput{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		Department:   req.Department,
	})
	cancel()
	if err != nil {
		if errors.Is(err, directory.ErrDuplicateEmail) {
			e.metricInc(MetricSignupDuplicate)
		}
		return directory.Identity{}, err
	}

	e.metricInc(MetricIdentityCreated)
	e.emitAudit(ctx, auditEventIdentityCreated, true, ident.ID, ident.Email, "", nil, func() map[string]string {
		return map[string]string{
			"actor": actorID,
			"role":  string(ident.Role),
		}
	})

	return ident, nil
}
