package rbac

// Role is one of the closed set of account roles. Roles are not
// first-class mutable entities; a role only selects which permission set
// and module set an identity receives.
type Role string

const (
	// RoleAdmin is the only role permitted to manage accounts.
	RoleAdmin Role = "admin"
	// RoleGeneralManager covers company-wide oversight.
	RoleGeneralManager Role = "general_manager"
	// RoleProjectManager runs individual construction projects.
	RoleProjectManager Role = "project_manager"
	// RoleEngineer works on site: projects, supervision, and quality.
	RoleEngineer Role = "engineer"
	// RoleConsultant has limited, consulting-focused access.
	RoleConsultant Role = "consultant"
	// RoleEmployee is the default back-office role.
	RoleEmployee Role = "employee"
)

// Roles returns the closed role enumeration in a stable order.
func Roles() []Role {
	return []Role{
		RoleAdmin,
		RoleGeneralManager,
		RoleProjectManager,
		RoleEngineer,
		RoleConsultant,
		RoleEmployee,
	}
}

// Valid reports whether r is part of the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGeneralManager, RoleProjectManager,
		RoleEngineer, RoleConsultant, RoleEmployee:
		return true
	}
	return false
}

// ParseRole converts a raw string into a Role. Returns false for anything
// outside the closed enumeration.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// Permission is an opaque capability token. Permissions are never combined
// or computed at runtime; each role statically owns a fixed set.
type Permission string

const (
	// PermManageUsers gates account approval, rejection, and direct creation.
	PermManageUsers Permission = "manage_users"
	// PermExportData gates report and document export.
	PermExportData Permission = "export_data"

	PermViewDashboard Permission = "view_dashboard"

	PermViewProjects   Permission = "view_projects"
	PermManageProjects Permission = "manage_projects"

	PermViewFinance   Permission = "view_finance"
	PermManageFinance Permission = "manage_finance"

	PermManageContracts Permission = "manage_contracts"
	PermSignContracts   Permission = "sign_contracts"

	PermViewHR   Permission = "view_hr"
	PermManageHR Permission = "manage_hr"

	PermViewQuality   Permission = "view_quality"
	PermManageQuality Permission = "manage_quality"

	PermManageCRM Permission = "manage_crm"
)

// Permissions returns the closed permission token set in a stable order.
func Permissions() []Permission {
	return []Permission{
		PermManageUsers,
		PermExportData,
		PermViewDashboard,
		PermViewProjects,
		PermManageProjects,
		PermViewFinance,
		PermManageFinance,
		PermManageContracts,
		PermSignContracts,
		PermViewHR,
		PermManageHR,
		PermViewQuality,
		PermManageQuality,
		PermManageCRM,
	}
}

// Valid reports whether p is part of the closed permission set.
func (p Permission) Valid() bool {
	for _, known := range Permissions() {
		if p == known {
			return true
		}
	}
	return false
}

// Module names one navigable application area gated by role membership.
type Module string

const (
	ModuleDashboard   Module = "dashboard"
	ModuleProjects    Module = "projects"
	ModuleSupervision Module = "supervision"
	ModuleConsulting  Module = "consulting"
	ModuleQuality     Module = "qa"
	ModuleFinance     Module = "finance"
	ModuleUsers       Module = "users"
	ModuleContracts   Module = "contracts"
	ModuleHR          Module = "hr"
	ModuleCRM         Module = "crm"
)

// Modules returns the module identifiers in a stable order.
func Modules() []Module {
	return []Module{
		ModuleDashboard,
		ModuleProjects,
		ModuleSupervision,
		ModuleConsulting,
		ModuleQuality,
		ModuleFinance,
		ModuleUsers,
		ModuleContracts,
		ModuleHR,
		ModuleCRM,
	}
}

// Valid reports whether m is a known module identifier.
func (m Module) Valid() bool {
	for _, known := range Modules() {
		if m == known {
			return true
		}
	}
	return false
}
