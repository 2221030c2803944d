package rbac

// Builtin tables for the construction ERP. These are process-wide,
// immutable configuration; deployments with different needs pass their own
// tables through the builder.

var defaultRolePermissions = map[Role][]Permission{
	RoleAdmin: {
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
	},
	RoleGeneralManager: {
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
		PermManageCRM,
	},
	RoleProjectManager: {
		PermExportData,
		PermViewDashboard,
		PermViewProjects,
		PermManageProjects,
		PermManageContracts,
		PermViewQuality,
		PermManageQuality,
	},
	RoleEngineer: {
		PermViewDashboard,
		PermViewProjects,
		PermViewQuality,
		PermManageQuality,
	},
	RoleConsultant: {
		PermViewDashboard,
		PermViewProjects,
	},
	RoleEmployee: {
		PermViewDashboard,
	},
}

// Module visibility. Engineers see the site-facing areas (projects,
// supervision, consulting in a limited capacity, qa) and none of the
// back-office ones (finance, users, contracts, hr).
var defaultModuleRoles = map[Module][]Role{
	ModuleDashboard: {
		RoleAdmin, RoleGeneralManager, RoleProjectManager,
		RoleEngineer, RoleConsultant, RoleEmployee,
	},
	ModuleProjects: {
		RoleAdmin, RoleGeneralManager, RoleProjectManager, RoleEngineer,
	},
	ModuleSupervision: {
		RoleAdmin, RoleGeneralManager, RoleProjectManager, RoleEngineer,
	},
	ModuleConsulting: {
		RoleAdmin, RoleGeneralManager, RoleProjectManager,
		RoleEngineer, RoleConsultant,
	},
	ModuleQuality: {
		RoleAdmin, RoleGeneralManager, RoleProjectManager, RoleEngineer,
	},
	ModuleFinance: {
		RoleAdmin, RoleGeneralManager,
	},
	ModuleUsers: {
		RoleAdmin,
	},
	ModuleContracts: {
		RoleAdmin, RoleGeneralManager, RoleProjectManager,
	},
	ModuleHR: {
		RoleAdmin, RoleGeneralManager,
	},
	ModuleCRM: {
		RoleAdmin, RoleGeneralManager, RoleEmployee,
	},
}
