package authcore

import (
	"context"
	"testing"

	"github.com/midroc-erp/authcore/directory"
	"github.com/midroc-erp/authcore/rbac"
)

func newBenchmarkEngine(b *testing.B) (*Engine, func()) {
	b.Helper()

	store := directory.NewMemory()
	hasher := newTestHasher(b)
	hash, err := hasher.Hash("bench-pass-1")
	if err != nil {
		b.Fatalf("hash failed: %v", err)
	}
	if _, err := store.CreateActive(context.Background(), directory.CreateInput{
		Name:         "Bench Engineer",
		Email:        "bench@midroc.com",
		PasswordHash: hash,
		Role:         rbac.RoleEngineer,
	}); err != nil {
		b.Fatalf("CreateActive failed: %v", err)
	}

	mr, rdb := newTestRedis(b)
	engine, err := New().
		WithConfig(engineTestConfig()).
		WithRedis(rdb).
		WithDirectory(store).
		Build()
	if err != nil {
		mr.Close()
		b.Fatalf("Build failed: %v", err)
	}

	return engine, func() {
		engine.Close()
		mr.Close()
	}
}

func BenchmarkHasPermission(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b)
	defer cleanup()

	if _, err := engine.Login(context.Background(), "bench@midroc.com", "bench-pass-1"); err != nil {
		b.Fatalf("login failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !engine.HasPermission(rbac.PermViewProjects) {
			b.Fatal("expected permission")
		}
	}
}

func BenchmarkCanAccessModule(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b)
	defer cleanup()

	if _, err := engine.Login(context.Background(), "bench@midroc.com", "bench-pass-1"); err != nil {
		b.Fatalf("login failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !engine.CanAccessModule(rbac.ModuleProjects) {
			b.Fatal("expected module access")
		}
	}
}

func BenchmarkLoginLogout(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b)
	defer cleanup()

	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Login(ctx, "bench@midroc.com", "bench-pass-1"); err != nil {
			b.Fatalf("login failed: %v", err)
		}
		if err := engine.Logout(ctx); err != nil {
			b.Fatalf("logout failed: %v", err)
		}
	}
}

func BenchmarkRestore(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b)
	defer cleanup()

	ctx := context.Background()
	if _, err := engine.Login(ctx, "bench@midroc.com", "bench-pass-1"); err != nil {
		b.Fatalf("login failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Restore(ctx); err != nil {
			b.Fatalf("restore failed: %v", err)
		}
	}
}
