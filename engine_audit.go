package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/midroc-erp/authcore/directory"
	"github.com/midroc-erp/authcore/session"
)

const (
	auditEventLoginSuccess         = "login_success"
	auditEventLoginFailure         = "login_failure"
	auditEventLoginRateLimited     = "login_rate_limited"
	auditEventLoginPendingApproval = "login_pending_approval"
	auditEventSignupSuccess        = "signup_success"
	auditEventSignupFailure        = "signup_failure"
	auditEventIdentityApproved     = "identity_approved"
	auditEventIdentityRejected     = "identity_rejected"
	auditEventIdentityCreated      = "identity_created"
	auditEventLogout               = "logout"
	auditEventSessionRestored      = "session_restored"
	auditEventSessionInvalidated   = "session_restore_invalidated"
	auditEventPermissionDenied     = "permission_denied"
	auditEventRateLimitTriggered   = "rate_limit_triggered"
)

// AuditErrorCode is the stable error vocabulary used in audit events.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrPendingApproval    AuditErrorCode = "pending_approval"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrNotAuthenticated   AuditErrorCode = "not_authenticated"
	auditErrPermissionDenied   AuditErrorCode = "permission_denied"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrInvalidRequest     AuditErrorCode = "invalid_request"
	auditErrPasswordPolicy     AuditErrorCode = "password_policy"
	auditErrNotFound           AuditErrorCode = "not_found"
	auditErrInvalidToken       AuditErrorCode = "invalid_token"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	identityID string,
	email string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		IdentityID: identityID,
		Email:      email,
		SessionID:  sessionID,
		IP:         clientIPFromContext(ctx),
		Success:    success,
		Metadata:   metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) emitRateLimit(ctx context.Context, scope, email string) {
	e.emitAudit(ctx, auditEventRateLimitTriggered, false, "", email, "", nil, func() map[string]string {
		return map[string]string{
			"scope": scope,
		}
	})
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrPendingApproval):
		return auditErrPendingApproval
	case errors.Is(err, ErrLoginRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrNotAuthenticated):
		return auditErrNotAuthenticated
	case errors.Is(err, ErrPermissionDenied):
		return auditErrPermissionDenied
	case errors.Is(err, directory.ErrDuplicateEmail):
		return auditErrDuplicate
	case errors.Is(err, ErrSignupInvalid),
		errors.Is(err, ErrSignupDisabled),
		errors.Is(err, ErrRoleInvalid):
		return auditErrInvalidRequest
	case errors.Is(err, ErrPasswordPolicy):
		return auditErrPasswordPolicy
	case errors.Is(err, directory.ErrIdentityNotFound):
		return auditErrNotFound
	case errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokensDisabled):
		return auditErrInvalidToken
	case errors.Is(err, directory.ErrUnavailable),
		errors.Is(err, session.ErrUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
