package authcore

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/midroc-erp/authcore/directory"
	"github.com/midroc-erp/authcore/internal"
	"github.com/midroc-erp/authcore/internal/rate"
	"github.com/midroc-erp/authcore/password"
	"github.com/midroc-erp/authcore/rbac"
	"github.com/midroc-erp/authcore/session"
	"github.com/midroc-erp/authcore/token"
)

// Engine is the authorization core: it authenticates against the
// account directory, holds the signed-in session, persists it for
// restarts, and answers every RBAC query the embedding application
// asks. One Engine serves one client installation; its signed-in state
// is guarded internally and safe for concurrent use.
type Engine struct {
	config    Config
	tables    *rbac.Registry
	directory directory.Store
	sessions  *session.Store
	limiter   *rate.Limiter
	audit     *auditDispatcher
	metrics   *Metrics
	hasher    *password.Argon2
	tokens    *token.Manager
	clientID  string

	mu      sync.RWMutex
	current *session.Snapshot
}

// Close flushes the audit dispatcher. The engine must not be used
// afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// ClientID returns the session-slot identifier this engine persists
// under.
func (e *Engine) ClientID() string {
	if e == nil {
		return ""
	}
	return e.clientID
}

// PasswordHasher exposes the engine's hasher, e.g. for seeding the demo
// dataset with [directory.SeedDemo].
func (e *Engine) PasswordHasher() *password.Argon2 {
	if e == nil {
		return nil
	}
	return e.hasher
}

// AuditDropped reports audit events lost to a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot copies the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// dirCtx applies the configured directory timeout on top of the
// caller's context.
func (e *Engine) dirCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.config.Directory.OpTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.config.Directory.OpTimeout)
}

// Login verifies credentials against the directory and, on success,
// starts a session, persists it under the engine's client slot, and
// returns the signed-in identity. The pending-approval check runs only
// after the password verifies, so a probe cannot learn whether an email
// is registered.
func (e *Engine) Login(ctx context.Context, email, plaintext string) (*LoginResult, error) {
	if e == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	ip := clientIPFromContext(ctx)
	email = directory.NormalizeEmail(email)

	if e.limiter != nil {
		if err := e.limiter.CheckLogin(ctx, email, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				return nil, e.failLoginThrottled(ctx, email)
			}
			// Fail open: a dead throttle backend must not lock
			// everyone out.
			log.Printf("authcore: check login throttle: %v", err)
		}
	}

	if plaintext == "" {
		return nil, e.failLogin(ctx, email, "empty_password")
	}

	dctx, cancel := e.dirCtx(ctx)
	ident, err := e.directory.FindByEmail(dctx, email)
	cancel()
	if err != nil {
		if errors.Is(err, directory.ErrIdentityNotFound) {
			return nil, e.failLogin(ctx, email, "unknown_email")
		}
		return nil, err
	}

	ok, err := e.hasher.Verify(plaintext, ident.PasswordHash)
	if err != nil || !ok {
		return nil, e.failLogin(ctx, email, "wrong_password")
	}

	// Credentials are good. Only now may the caller learn the account
	// exists but is not yet approved.
	if !ident.Approved {
		e.metricInc(MetricLoginPendingApproval)
		e.emitAudit(ctx, auditEventLoginPendingApproval, false, ident.ID, email, "", ErrPendingApproval, nil)
		return nil, ErrPendingApproval
	}

	if e.config.Password.UpgradeOnLogin {
		e.maybeUpgradeHash(ctx, ident, plaintext)
	}

	if e.limiter != nil {
		if err := e.limiter.ResetLogin(ctx, email, ip); err != nil {
			// Stale counters age out with the cooldown TTL.
			log.Printf("authcore: reset login counter: %v", err)
		}
	}

	sid, err := internal.NewSessionID()
	if err != nil {
		return nil, err
	}

	snap := &session.Snapshot{
		SessionID:  sid.String(),
		IdentityID: ident.ID,
		Email:      ident.Email,
		Name:       ident.Name,
		Role:       string(ident.Role),
		Department: ident.Department,
		CreatedAt:  time.Now().Unix(),
	}

	if err := e.sessions.Save(ctx, e.clientID, snap); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.current = snap
	e.mu.Unlock()

	e.metricInc(MetricLoginSuccess)
	if e.metrics != nil {
		e.metrics.Observe(MetricLoginLatency, time.Since(start))
	}
	e.emitAudit(ctx, auditEventLoginSuccess, true, ident.ID, email, snap.SessionID, nil, func() map[string]string {
		return map[string]string{
			"role": string(ident.Role),
		}
	})

	result := &LoginResult{AuthResult: authResultFromSnapshot(snap)}

	if e.tokens != nil {
		tok, err := e.tokens.Issue(ident.ID, ident.Email, string(ident.Role), snap.SessionID)
		if err != nil {
			return nil, err
		}
		result.Token = tok
		e.metricInc(MetricTokenIssued)
	}

	return result, nil
}

func (e *Engine) failLogin(ctx context.Context, email, reason string) error {
	if e.limiter != nil {
		if err := e.limiter.IncrementLogin(ctx, email, clientIPFromContext(ctx)); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				return e.failLoginThrottled(ctx, email)
			}
			// A dead throttle backend must not lock everyone out.
			log.Printf("authcore: increment login counter: %v", err)
		}
	}
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, "", email, "", ErrInvalidCredentials, func() map[string]string {
		return map[string]string{
			"reason": reason,
		}
	})
	return ErrInvalidCredentials
}

func (e *Engine) failLoginThrottled(ctx context.Context, email string) error {
	e.metricInc(MetricLoginRateLimited)
	e.emitAudit(ctx, auditEventLoginRateLimited, false, "", email, "", ErrLoginRateLimited, nil)
	e.emitRateLimit(ctx, "login", email)
	return ErrLoginRateLimited
}

func (e *Engine) maybeUpgradeHash(ctx context.Context, ident directory.Identity, plaintext string) {
	needs, err := e.hasher.NeedsUpgrade(ident.PasswordHash)
	if err != nil || !needs {
		return
	}
	newHash, err := e.hasher.Hash(plaintext)
	if err != nil {
		return
	}
	dctx, cancel := e.dirCtx(ctx)
	defer cancel()
	if err := e.directory.UpdatePasswordHash(dctx, ident.ID, newHash); err != nil {
		// Best effort: the old hash keeps working.
		log.Printf("authcore: password hash upgrade: %v", err)
	}
}

// Logout clears the signed-in session and its persisted slot. Calling
// it signed out is not an error.
func (e *Engine) Logout(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}

	e.mu.Lock()
	snap := e.current
	e.current = nil
	e.mu.Unlock()

	if err := e.sessions.Clear(ctx, e.clientID); err != nil {
		return err
	}

	e.metricInc(MetricLogout)
	if snap != nil {
		e.emitAudit(ctx, auditEventLogout, true, snap.IdentityID, snap.Email, snap.SessionID, nil, nil)
	}

	return nil
}

// Restore rehydrates the persisted session, revalidating it against the
// directory: the identity must still exist and still be approved, and
// role, name, and department are refreshed from the current record. A
// session that fails revalidation is cleared and reported as
// ErrNotAuthenticated.
func (e *Engine) Restore(ctx context.Context) (*AuthResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	snap, err := e.sessions.Load(ctx, e.clientID)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) || errors.Is(err, session.ErrCorruptSnapshot) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}

	dctx, cancel := e.dirCtx(ctx)
	ident, err := e.directory.FindByID(dctx, snap.IdentityID)
	cancel()
	if err != nil {
		if errors.Is(err, directory.ErrIdentityNotFound) {
			return nil, e.invalidateRestore(ctx, snap, "identity_gone")
		}
		return nil, err
	}
	if !ident.Approved {
		return nil, e.invalidateRestore(ctx, snap, "not_approved")
	}

	// The directory record wins over the snapshot for anything an
	// administrator may have changed since the last login.
	if snap.Role != string(ident.Role) || snap.Name != ident.Name || snap.Department != ident.Department {
		snap.Role = string(ident.Role)
		snap.Name = ident.Name
		snap.Department = ident.Department
		if err := e.sessions.Save(ctx, e.clientID, snap); err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	e.current = snap
	e.mu.Unlock()

	e.metricInc(MetricSessionRestored)
	e.emitAudit(ctx, auditEventSessionRestored, true, snap.IdentityID, snap.Email, snap.SessionID, nil, nil)

	result := authResultFromSnapshot(snap)
	return &result, nil
}

func (e *Engine) invalidateRestore(ctx context.Context, snap *session.Snapshot, reason string) error {
	if err := e.sessions.Clear(ctx, e.clientID); err != nil {
		log.Printf("authcore: clear invalidated session: %v", err)
	}

	e.metricInc(MetricSessionRestoreInvalidated)
	e.emitAudit(ctx, auditEventSessionInvalidated, false, snap.IdentityID, snap.Email, snap.SessionID, ErrNotAuthenticated, func() map[string]string {
		return map[string]string{
			"reason": reason,
		}
	})

	return ErrNotAuthenticated
}

// Signup registers a pending account. The identity cannot sign in until
// an administrator approves it.
func (e *Engine) Signup(ctx context.Context, req SignupRequest) (directory.Identity, error) {
	if e == nil || e.hasher == nil {
		return directory.Identity{}, ErrEngineNotReady
	}
	if !e.config.Signup.Enabled {
		return directory.Identity{}, ErrSignupDisabled
	}

	email := directory.NormalizeEmail(req.Email)

	if req.Name == "" || email == "" {
		return directory.Identity{}, e.failSignup(ctx, email, ErrSignupInvalid, "missing_fields")
	}
	if !req.Role.Valid() {
		return directory.Identity{}, e.failSignup(ctx, email, ErrRoleInvalid, "unknown_role")
	}
	if !e.config.signupRoleAllowed(req.Role) {
		return directory.Identity{}, e.failSignup(ctx, email, ErrRoleInvalid, "role_not_allowed")
	}
	if len(req.Password) < e.config.Password.MinLength {
		return directory.Identity{}, e.failSignup(ctx, email, ErrPasswordPolicy, "password_too_short")
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return directory.Identity{}, e.failSignup(ctx, email, ErrPasswordPolicy, "hash_rejected")
	}

	dctx, cancel := e.dirCtx(ctx)
	ident, err := e.directory.Register(dctx, directory.CreateInput{
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
			e.emitAudit(ctx, auditEventSignupFailure, false, "", email, "", err, nil)
			return directory.Identity{}, err
		}
		return directory.Identity{}, err
	}

	e.metricInc(MetricSignupSuccess)
	e.emitAudit(ctx, auditEventSignupSuccess, true, ident.ID, email, "", nil, func() map[string]string {
		return map[string]string{
			"role": string(ident.Role),
		}
	})

	return ident, nil
}

func (e *Engine) failSignup(ctx context.Context, email string, err error, reason string) error {
	e.metricInc(MetricSignupInvalid)
	e.emitAudit(ctx, auditEventSignupFailure, false, "", email, "", err, func() map[string]string {
		return map[string]string{
			"reason": reason,
		}
	})
	return err
}

func authResultFromSnapshot(snap *session.Snapshot) AuthResult {
	return AuthResult{
		SessionID:  snap.SessionID,
		IdentityID: snap.IdentityID,
		Email:      snap.Email,
		Name:       snap.Name,
		Role:       rbac.Role(snap.Role),
		Department: snap.Department,
		SignedInAt: time.Unix(snap.CreatedAt, 0).UTC(),
	}
}
