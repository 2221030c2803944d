package authcore

import (
	"context"
	"errors"
	"testing"

	"github.com/midroc-erp/authcore/directory"
	"github.com/midroc-erp/authcore/rbac"
)

func TestDemoDatasetLogins(t *testing.T) {
	store := directory.NewMemory()
	engine, cleanup := buildTestEngine(t, engineTestConfig(), store)
	defer cleanup()

	ctx := context.Background()
	seeded, err := directory.SeedDemo(ctx, store, engine.PasswordHasher())
	if err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}
	if len(seeded) != len(rbac.Roles()) {
		t.Fatalf("seeded %d accounts, want one per role", len(seeded))
	}

	res, err := engine.Login(ctx, "admin@midroc.com", directory.DemoPassword)
	if err != nil {
		t.Fatalf("demo admin login failed: %v", err)
	}
	if res.Role != rbac.RoleAdmin {
		t.Fatalf("demo admin role = %q", res.Role)
	}
	if !engine.HasPermission(rbac.PermManageUsers) {
		t.Fatal("demo admin must manage users")
	}
	if err := engine.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := engine.Login(ctx, "admin@midroc.com", "Password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong-case password = %v, want ErrInvalidCredentials", err)
	}

	// Every seeded role signs in with the shared demo password.
	for _, ident := range seeded {
		res, err := engine.Login(ctx, ident.Email, directory.DemoPassword)
		if err != nil {
			t.Fatalf("demo login %s failed: %v", ident.Email, err)
		}
		if res.Role != ident.Role {
			t.Fatalf("demo %s role = %q, want %q", ident.Email, res.Role, ident.Role)
		}
		if err := engine.Logout(ctx); err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
	}
}

func TestDemoSeedRefusesDuplicates(t *testing.T) {
	store := directory.NewMemory()
	engine, cleanup := buildTestEngine(t, engineTestConfig(), store)
	defer cleanup()

	ctx := context.Background()
	if _, err := directory.SeedDemo(ctx, store, engine.PasswordHasher()); err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}
	if _, err := directory.SeedDemo(ctx, store, engine.PasswordHasher()); err == nil {
		t.Fatal("second seed over the same store must fail on duplicates")
	}
}
