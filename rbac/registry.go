package rbac

import (
	"errors"
	"fmt"
	"sort"
)

// Registry is the frozen pair of authorization tables: role to permission
// set, and module to allowed-role set.
//
// A Registry is built once via [NewRegistry] or [Default] and is read-only
// afterwards, so lookups need no locking.
type Registry struct {
	rolePerms   map[Role]map[Permission]struct{}
	moduleRoles map[Module]map[Role]struct{}
}

// NewRegistry validates and freezes custom tables. Every key must belong
// to the closed role/permission/module sets; roles missing from rolePerms
// are filled with the empty permission set so lookups stay total over the
// enumeration.
func NewRegistry(rolePerms map[Role][]Permission, moduleRoles map[Module][]Role) (*Registry, error) {
	r := &Registry{
		rolePerms:   make(map[Role]map[Permission]struct{}, len(Roles())),
		moduleRoles: make(map[Module]map[Role]struct{}, len(moduleRoles)),
	}

	for role, perms := range rolePerms {
		if !role.Valid() {
			return nil, fmt.Errorf("rbac: unknown role %q", role)
		}
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			if !p.Valid() {
				return nil, fmt.Errorf("rbac: unknown permission %q for role %q", p, role)
			}
			set[p] = struct{}{}
		}
		r.rolePerms[role] = set
	}

	// Totality: every role in the enumeration maps to a (possibly empty) set.
	for _, role := range Roles() {
		if _, ok := r.rolePerms[role]; !ok {
			r.rolePerms[role] = map[Permission]struct{}{}
		}
	}

	for module, roles := range moduleRoles {
		if !module.Valid() {
			return nil, fmt.Errorf("rbac: unknown module %q", module)
		}
		set := make(map[Role]struct{}, len(roles))
		for _, role := range roles {
			if !role.Valid() {
				return nil, fmt.Errorf("rbac: unknown role %q for module %q", role, module)
			}
			set[role] = struct{}{}
		}
		r.moduleRoles[module] = set
	}

	if len(r.moduleRoles) == 0 {
		return nil, errors.New("rbac: module table must not be empty")
	}

	return r, nil
}

// Default returns a Registry built from the ERP's builtin tables.
func Default() *Registry {
	r, err := NewRegistry(defaultRolePermissions, defaultModuleRoles)
	if err != nil {
		// The builtin tables are covered by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return r
}

// PermissionsFor returns the permission tokens granted to role, sorted.
// Unknown roles yield an empty slice, never an error.
func (r *Registry) PermissionsFor(role Role) []Permission {
	set, ok := r.rolePerms[role]
	if !ok {
		return []Permission{}
	}
	out := make([]Permission, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RolesAllowed returns the roles permitted to view module, sorted.
// Unknown modules yield an empty slice.
func (r *Registry) RolesAllowed(module Module) []Role {
	set, ok := r.moduleRoles[module]
	if !ok {
		return []Role{}
	}
	out := make([]Role, 0, len(set))
	for role := range set {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasPermission reports whether role statically owns the permission token.
func (r *Registry) HasPermission(role Role, p Permission) bool {
	set, ok := r.rolePerms[role]
	if !ok {
		return false
	}
	_, granted := set[p]
	return granted
}

// AllowsModule reports whether role may view module. Unknown inputs on
// either side deny.
func (r *Registry) AllowsModule(module Module, role Role) bool {
	set, ok := r.moduleRoles[module]
	if !ok {
		return false
	}
	_, allowed := set[role]
	return allowed
}
