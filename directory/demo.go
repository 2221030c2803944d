package directory

import (
	"context"
	"fmt"

	"github.com/midroc-erp/authcore/rbac"
)

// DemoPassword is the plaintext shared by every demo account. It exists
// only for the seeded dataset; real deployments create accounts with their
// own credentials.
const DemoPassword = "password"

// Hasher produces a stored credential hash from a plaintext password.
// Satisfied by password.Argon2.
type Hasher interface {
	Hash(password string) (string, error)
}

var demoAccounts = []CreateInput{
	{Name: "System Administrator", Email: "admin@midroc.com", Role: rbac.RoleAdmin, Department: "IT"},
	{Name: "Alem Tesfaye", Email: "gm@midroc.com", Role: rbac.RoleGeneralManager, Department: "Management"},
	{Name: "Sara Bekele", Email: "pm@midroc.com", Role: rbac.RoleProjectManager, Department: "Projects"},
	{Name: "Dawit Haile", Email: "engineer@midroc.com", Role: rbac.RoleEngineer, Department: "Engineering"},
	{Name: "Hanna Girma", Email: "consultant@midroc.com", Role: rbac.RoleConsultant, Department: "Consulting"},
	{Name: "Yonas Abebe", Email: "employee@midroc.com", Role: rbac.RoleEmployee, Department: "Operations"},
}

// SeedDemo loads the demo dataset into the store: one active account per
// role, all sharing [DemoPassword]. Hashing happens here, at seed time, so
// the stored records carry proper salted hashes like any other account.
func SeedDemo(ctx context.Context, store Store, hasher Hasher) ([]Identity, error) {
	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	out := make([]Identity, 0, len(demoAccounts))
	for _, input := range demoAccounts {
		input.PasswordHash = hash
		ident, err := store.CreateActive(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", input.Email, err)
		}
		out = append(out, ident)
	}

	return out, nil
}
