package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/midroc-erp/authcore/rbac"
)

func testInput(email string) CreateInput {
	return CreateInput{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$argon2id$fake",
		Role:         rbac.RoleEngineer,
		Department:   "Engineering",
	}
}

func TestMemoryRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	first, err := store.Register(ctx, testInput("x@midroc.com"))
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if first.Approved {
		t.Fatal("registered identity must start unapproved")
	}

	if _, err := store.Register(ctx, testInput("x@midroc.com")); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	pending, err := store.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected exactly one pending entry, got %d", len(pending))
	}
}

func TestMemoryEmailUniqueAcrossPartitions(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if _, err := store.CreateActive(ctx, testInput("taken@midroc.com")); err != nil {
		t.Fatalf("CreateActive failed: %v", err)
	}

	// Pending registration against an active email must also be refused.
	if _, err := store.Register(ctx, testInput("taken@midroc.com")); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail across partitions, got %v", err)
	}

	// Normalization: case and whitespace do not dodge the constraint.
	if _, err := store.Register(ctx, testInput("  TAKEN@midroc.com ")); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail for normalized duplicate, got %v", err)
	}
}

func TestMemoryApproveLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	ident, err := store.Register(ctx, testInput("p@midroc.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := store.FindActiveByEmail(ctx, "p@midroc.com"); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("pending identity visible as active: %v", err)
	}

	approved, err := store.Approve(ctx, ident.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if !approved.Approved {
		t.Fatal("approval flag not set")
	}

	active, err := store.FindActiveByEmail(ctx, "p@midroc.com")
	if err != nil {
		t.Fatalf("approved identity not active: %v", err)
	}
	if active.ID != ident.ID {
		t.Fatalf("active lookup returned wrong identity: %s", active.ID)
	}

	// Second approval: no longer pending.
	if _, err := store.Approve(ctx, ident.ID); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("double approve should fail with ErrIdentityNotFound, got %v", err)
	}

	if pending, _ := store.ListPending(ctx); len(pending) != 0 {
		t.Fatalf("approved identity still pending: %v", pending)
	}
}

func TestMemoryRejectIsPermanent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	ident, err := store.Register(ctx, testInput("y@midroc.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := store.Reject(ctx, ident.ID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	if _, err := store.Approve(ctx, ident.ID); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("rejected identity retroactively approvable: %v", err)
	}
	if _, err := store.FindByID(ctx, ident.ID); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatal("rejected identity still findable")
	}

	// The email is free again after rejection.
	if _, err := store.Register(ctx, testInput("y@midroc.com")); err != nil {
		t.Fatalf("re-register after reject failed: %v", err)
	}
}

func TestMemoryRejectActiveIdentityRefused(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	ident, err := store.CreateActive(ctx, testInput("a@midroc.com"))
	if err != nil {
		t.Fatalf("CreateActive failed: %v", err)
	}

	// Active identities are never deleted through this store.
	if err := store.Reject(ctx, ident.ID); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("reject of active identity should report not-found, got %v", err)
	}
}

func TestMemoryListPendingNewestFirst(t *testing.T) {
	ctx := context.Background()

	current := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemory(WithClock(func() time.Time {
		current = current.Add(time.Minute)
		return current
	}))

	var ids []string
	for _, email := range []string{"one@midroc.com", "two@midroc.com", "three@midroc.com"} {
		ident, err := store.Register(ctx, testInput(email))
		if err != nil {
			t.Fatalf("register %s failed: %v", email, err)
		}
		ids = append(ids, ident.ID)
	}

	pending, err := store.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending, got %d", len(pending))
	}
	for i := range pending {
		if pending[i].ID != ids[len(ids)-1-i] {
			t.Fatalf("pending[%d] = %s, want %s (newest first)", i, pending[i].ID, ids[len(ids)-1-i])
		}
	}
}

func TestSeedDemoMemory(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	seeded, err := SeedDemo(ctx, store, staticHasher{})
	if err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}
	if len(seeded) != 6 {
		t.Fatalf("expected 6 demo accounts, got %d", len(seeded))
	}

	admin, err := store.FindActiveByEmail(ctx, "admin@midroc.com")
	if err != nil {
		t.Fatalf("demo admin not active: %v", err)
	}
	if admin.Role != rbac.RoleAdmin {
		t.Fatalf("demo admin role = %s", admin.Role)
	}

	if pending, _ := store.ListPending(ctx); len(pending) != 0 {
		t.Fatal("demo accounts must not be pending")
	}
}

type staticHasher struct{}

func (staticHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}
