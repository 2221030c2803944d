package authcore

import (
	"context"
	"errors"
	"testing"

	"github.com/midroc-erp/authcore/directory"
	"github.com/midroc-erp/authcore/rbac"
)

func TestPrivilegedOpsRequireSession(t *testing.T) {
	store := directory.NewMemory()
	engine, cleanup := buildTestEngine(t, engineTestConfig(), store)
	defer cleanup()

	ctx := context.Background()

	if _, err := engine.PendingIdentities(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("PendingIdentities = %v, want ErrNotAuthenticated", err)
	}
	if _, err := engine.ApproveIdentity(ctx, "some-id"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("ApproveIdentity = %v, want ErrNotAuthenticated", err)
	}
	if err := engine.RejectIdentity(ctx, "some-id"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("RejectIdentity = %v, want ErrNotAuthenticated", err)
	}
	if _, err := engine.CreateIdentity(ctx, CreateIdentityRequest{}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("CreateIdentity = %v, want ErrNotAuthenticated", err)
	}
}

func TestPrivilegedOpsRequireManageUsers(t *testing.T) {
	store := directory.NewMemory()
	hasher := newTestHasher(t)
	seedActive(t, store, hasher, "Dawit Haile", "engineer@midroc.com", rbac.RoleEngineer, "site-pass-1")

	engine, cleanup := buildTestEngine(t, engineTestConfig(), store)
	defer cleanup()

	ctx := context.Background()
	if _, err := engine.Login(ctx, "engineer@midroc.com", "site-pass-1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := engine.PendingIdentities(ctx); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("PendingIdentities = %v, want ErrPermissionDenied", err)
	}
	if _, err := engine.ApproveIdentity(ctx, "some-id"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("ApproveIdentity = %v, want ErrPermissionDenied", err)
	}
	if err := engine.RejectIdentity(ctx, "some-id"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("RejectIdentity = %v, want ErrPermissionDenied", err)
	}
	if _, err := engine.CreateIdentity(ctx, CreateIdentityRequest{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("CreateIdentity = %v, want ErrPermissionDenied", err)
	}
}

func TestRejectFreesEmailAndEndsLifecycle(t *testing.T) {
	store := directory.NewMemory()
	hasher := newTestHasher(t)
	seedActive(t, store, hasher, "Almaz Bekele", "admin@midroc.com", rbac.RoleAdmin, "admin-pass-1")

	engine, cleanup := buildTestEngine(t, engineTestConfig(), store)
	defer cleanup()

	ctx := context.Background()
	if _, err := engine.Login(ctx, "admin@midroc.com", "admin-pass-1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	ident, err := engine.Signup(ctx, SignupRequest{
		Name:     "Yonas Girma",
		Email:    "yonas@midroc.com",
		Password: "yonas-pass-1",
		Role:     rbac.RoleEngineer,
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if err := engine.RejectIdentity(ctx, ident.ID); err != nil {
		t.Fatalf("RejectIdentity failed: %v", err)
	}

	// Rejection is permanent: the identity is gone for good.
	if _, err := engine.ApproveIdentity(ctx, ident.ID); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("ApproveIdentity after reject = %v, want ErrIdentityNotFound", err)
	}
	if err := engine.RejectIdentity(ctx, ident.ID); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("second RejectIdentity = %v, want ErrIdentityNotFound", err)
	}

	// The email is free for a fresh request.
	if _, err := engine.Signup(ctx, SignupRequest{
		Name:     "Yonas Girma",
		Email:    "yonas@midroc.com",
		Password: "yonas-pass-2",
		Role:     rbac.RoleEngineer,
	}); err != nil {
		t.Fatalf("re-signup after reject failed: %v", err)
	}
}

func TestCreateIdentityBypassesApproval(t *testing.T) {
	store := directory.NewMemory()
	hasher := newTestHasher(t)
	seedActive(t, store, hasher, "Almaz Bekele", "admin@midroc.com", rbac.RoleAdmin, "admin-pass-1")

	engine, cleanup := buildTestEngine(t, engineTestConfig(), store)
	defer cleanup()

	ctx := context.Background()
	if _, err := engine.Login(ctx, "admin@midroc.com", "admin-pass-1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// Direct creation may assign any role, including admin.
	ident, err := engine.CreateIdentity(ctx, CreateIdentityRequest{
		Name:       "Second Admin",
		Email:      "admin2@midroc.com",
		Password:   "admin2-pass-1",
		Role:       rbac.RoleAdmin,
		Department: "Management",
	})
	if err != nil {
		t.Fatalf("CreateIdentity failed: %v", err)
	}
	if !ident.Approved {
		t.Fatal("directly created account must be active")
	}

	if err := engine.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := engine.Login(ctx, "admin2@midroc.com", "admin2-pass-1"); err != nil {
		t.Fatalf("login as created account failed: %v", err)
	}
}

func TestCreateIdentityValidation(t *testing.T) {
	store := directory.NewMemory()
	hasher := newTestHasher(t)
	seedActive(t, store, hasher, "Almaz Bekele", "admin@midroc.com", rbac.RoleAdmin, "admin-pass-1")

	engine, cleanup := buildTestEngine(t, engineTestConfig(), store)
	defer cleanup()

	ctx := context.Background()
	if _, err := engine.Login(ctx, "admin@midroc.com", "admin-pass-1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := engine.CreateIdentity(ctx, CreateIdentityRequest{
		Name: "No Email", Password: "long-enough", Role: rbac.RoleEmployee,
	}); !errors.Is(err, ErrSignupInvalid) {
		t.Fatalf("missing email = %v, want ErrSignupInvalid", err)
	}
	if _, err := engine.CreateIdentity(ctx, CreateIdentityRequest{
		Name: "A", Email: "a@midroc.com", Password: "long-enough", Role: rbac.Role("contractor"),
	}); !errors.Is(err, ErrRoleInvalid) {
		t.Fatalf("unknown role = %v, want ErrRoleInvalid", err)
	}
	if _, err := engine.CreateIdentity(ctx, CreateIdentityRequest{
		Name: "A", Email: "a@midroc.com", Password: "short", Role: rbac.RoleEmployee,
	}); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("short password = %v, want ErrPasswordPolicy", err)
	}
	if _, err := engine.CreateIdentity(ctx, CreateIdentityRequest{
		Name: "Dup", Email: "admin@midroc.com", Password: "long-enough", Role: rbac.RoleEmployee,
	}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("duplicate = %v, want ErrDuplicateEmail", err)
	}
}

func TestPendingIdentitiesNewestFirst(t *testing.T) {
	store := directory.NewMemory()
	hasher := newTestHasher(t)
	seedActive(t, store, hasher, "Almaz Bekele", "admin@midroc.com", rbac.RoleAdmin, "admin-pass-1")

	engine, cleanup := buildTestEngine(t, engineTestConfig(), store)
	defer cleanup()

	ctx := context.Background()
	if _, err := engine.Login(ctx, "admin@midroc.com", "admin-pass-1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	emails := []string{"first@midroc.com", "second@midroc.com", "third@midroc.com"}
	for _, email := range emails {
		if _, err := engine.Signup(ctx, SignupRequest{
			Name:     "Requester",
			Email:    email,
			Password: "long-enough",
			Role:     rbac.RoleEmployee,
		}); err != nil {
			t.Fatalf("Signup %s failed: %v", email, err)
		}
	}

	pending, err := engine.PendingIdentities(ctx)
	if err != nil {
		t.Fatalf("PendingIdentities failed: %v", err)
	}
	if len(pending) != len(emails) {
		t.Fatalf("pending count = %d, want %d", len(pending), len(emails))
	}
	for i := 1; i < len(pending); i++ {
		if pending[i-1].CreatedAt.Before(pending[i].CreatedAt) {
			t.Fatalf("pending queue not newest first: %v then %v", pending[i-1].CreatedAt, pending[i].CreatedAt)
		}
	}
}
