package authcore

import (
	"context"
	"testing"

	"github.com/midroc-erp/authcore/directory"
	"github.com/midroc-erp/authcore/rbac"
)

func TestQueriesDenyWhenSignedOut(t *testing.T) {
	store := directory.NewMemory()
	engine, cleanup := buildTestEngine(t, engineTestConfig(), store)
	defer cleanup()

	if engine.IsAuthenticated() {
		t.Fatal("fresh engine must be signed out")
	}
	if _, ok := engine.Current(); ok {
		t.Fatal("Current must report signed out")
	}
	if engine.HasRole(rbac.RoleAdmin) {
		t.Fatal("HasRole must deny signed out")
	}
	if engine.HasPermission(rbac.PermViewDashboard) {
		t.Fatal("HasPermission must deny signed out")
	}
	if engine.CanAccessModule(rbac.ModuleDashboard) {
		t.Fatal("CanAccessModule must deny signed out")
	}
	if got := engine.Permissions(); len(got) != 0 {
		t.Fatalf("Permissions signed out = %v, want empty", got)
	}
	if got := engine.AccessibleModules(); len(got) != 0 {
		t.Fatalf("AccessibleModules signed out = %v, want empty", got)
	}
}

func TestEngineerModuleAndPermissionMatrix(t *testing.T) {
	store := directory.NewMemory()
	hasher := newTestHasher(t)
	seedActive(t, store, hasher, "Dawit Haile", "engineer@midroc.com", rbac.RoleEngineer, "site-pass-1")

	engine, cleanup := buildTestEngine(t, engineTestConfig(), store)
	defer cleanup()

	if _, err := engine.Login(context.Background(), "engineer@midroc.com", "site-pass-1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	modules := map[rbac.Module]bool{
		rbac.ModuleDashboard:   true,
		rbac.ModuleProjects:    true,
		rbac.ModuleSupervision: true,
		rbac.ModuleQuality:     true,
		rbac.ModuleFinance:     false,
		rbac.ModuleUsers:       false,
		rbac.ModuleContracts:   false,
		rbac.ModuleHR:          false,
		rbac.ModuleCRM:         false,
		rbac.ModuleConsulting:  true,
	}
	for module, want := range modules {
		if got := engine.CanAccessModule(module); got != want {
			t.Errorf("engineer access to %s = %v, want %v", module, got, want)
		}
	}

	if engine.HasPermission(rbac.PermManageUsers) {
		t.Error("engineer must not manage users")
	}
	if !engine.HasPermission(rbac.PermViewProjects) {
		t.Error("engineer must view projects")
	}
	if !engine.HasRole(rbac.RoleEngineer) || engine.HasRole(rbac.RoleAdmin) {
		t.Error("HasRole must match the signed-in role exactly")
	}

	accessible := engine.AccessibleModules()
	seen := make(map[rbac.Module]bool, len(accessible))
	for _, m := range accessible {
		seen[m] = true
	}
	for module, want := range modules {
		if seen[module] != want {
			t.Errorf("AccessibleModules includes %s = %v, want %v", module, seen[module], want)
		}
	}
}

func TestUnknownInputsDeny(t *testing.T) {
	store := directory.NewMemory()
	hasher := newTestHasher(t)
	seedActive(t, store, hasher, "Almaz Bekele", "admin@midroc.com", rbac.RoleAdmin, "admin-pass-1")

	engine, cleanup := buildTestEngine(t, engineTestConfig(), store)
	defer cleanup()

	if _, err := engine.Login(context.Background(), "admin@midroc.com", "admin-pass-1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if engine.HasPermission(rbac.Permission("launch_rockets")) {
		t.Fatal("unknown permission must deny, even for admin")
	}
	if engine.CanAccessModule(rbac.Module("warehouse")) {
		t.Fatal("unknown module must deny, even for admin")
	}
}

func TestCurrentReflectsLogin(t *testing.T) {
	store := directory.NewMemory()
	hasher := newTestHasher(t)
	seedActive(t, store, hasher, "Sara Tadesse", "gm@midroc.com", rbac.RoleGeneralManager, "gm-pass-123")

	engine, cleanup := buildTestEngine(t, engineTestConfig(), store)
	defer cleanup()

	login, err := engine.Login(context.Background(), "gm@midroc.com", "gm-pass-123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	current, ok := engine.Current()
	if !ok {
		t.Fatal("Current must report signed in")
	}
	if current.SessionID != login.SessionID || current.Email != login.Email || current.Role != login.Role {
		t.Fatalf("Current = %+v, want the login result", current)
	}

	perms := engine.Permissions()
	if len(perms) == 0 {
		t.Fatal("general manager must hold permissions")
	}
	for i := 1; i < len(perms); i++ {
		if perms[i-1] >= perms[i] {
			t.Fatalf("Permissions not sorted: %v", perms)
		}
	}
}
