package rbac

import (
	"log/slog"
)

// seedModule mirrors the navigation catalog shipped with a fresh install.
type seedModule struct {
	Name        string
	DisplayName string
	Category    string
	Icon        string
	Route       string
	SortOrder   int
}

type seedRole struct {
	Name        string
	DisplayName string
	Description string
	Grants      map[string]PermissionSet
}

var seedModules = []seedModule{
	{Name: ModuleDashboard, DisplayName: "Dashboard", Category: CategoryDashboard, Icon: "solar:pie-chart-2-bold-duotone", Route: "/dashboard", SortOrder: 0},
	{Name: ModuleSchedule, DisplayName: "Schedule", Category: CategoryOperations, Icon: "solar:calendar-bold-duotone", Route: "/operations/schedule", SortOrder: 1},
	{Name: ModuleDTR, DisplayName: "Daily Time Record", Category: CategoryOperations, Icon: "solar:clock-circle-bold-duotone", Route: "/operations/dtr", SortOrder: 2},
	{Name: ModuleEmployeeDirectory, DisplayName: "Employee Directory", Category: CategoryOperations, Icon: "solar:users-group-rounded-bold-duotone", Route: "/operations/employee-directory", SortOrder: 10},
	{Name: ModuleRequests, DisplayName: "Requests", Category: CategoryHRPeople, Icon: "solar:clipboard-list-bold-duotone", Route: "/hr/requests", SortOrder: 11},
	{Name: ModulePayDisputes, DisplayName: "Pay Disputes", Category: CategoryHRPeople, Icon: "solar:wallet-money-bold-duotone", Route: "/hr/pay-disputes", SortOrder: 12},
	{Name: ModuleIRNTELogs, DisplayName: "IR/NTE Logs", Category: CategoryHRPeople, Icon: "solar:document-text-bold-duotone", Route: "/hr/ir-nte", SortOrder: 13},
	{Name: ModuleOnboarding, DisplayName: "Onboarding", Category: CategoryHRPeople, Icon: "solar:user-plus-bold-duotone", Route: "/hr/onboarding", SortOrder: 14},
	{Name: ModuleUserManagement, DisplayName: "User Management", Category: CategoryAdmin, Icon: "solar:users-group-two-rounded-bold-duotone", Route: "/admin/users", SortOrder: 90},
	{Name: ModuleRoleManagement, DisplayName: "Role Management", Category: CategoryAdmin, Icon: "solar:shield-user-bold-duotone", Route: "/admin/roles", SortOrder: 91},
	{Name: ModuleSystemSettings, DisplayName: "System Settings", Category: CategoryAdmin, Icon: "solar:settings-bold-duotone", Route: "/admin/settings", SortOrder: 92},
}

var (
	fullAccess = PermissionSet{CanView: true, CanCreate: true, CanEdit: true, CanDelete: true}
	viewOnly   = PermissionSet{CanView: true}
)

var seedRoles = []seedRole{
	{
		Name:        "admin",
		DisplayName: "Administrator",
		Description: "Full system access",
		Grants: map[string]PermissionSet{
			ModuleDashboard:         fullAccess,
			ModuleSchedule:          fullAccess,
			ModuleDTR:               fullAccess,
			ModuleEmployeeDirectory: fullAccess,
			ModuleRequests:          fullAccess,
			ModulePayDisputes:       fullAccess,
			ModuleIRNTELogs:         fullAccess,
			ModuleOnboarding:        fullAccess,
			ModuleUserManagement:    fullAccess,
			ModuleRoleManagement:    fullAccess,
			ModuleSystemSettings:    fullAccess,
		},
	},
	{
		Name:        "executive",
		DisplayName: "Executive",
		Description: "Executive level access - view all, limited edit",
		Grants: map[string]PermissionSet{
			ModuleDashboard:         viewOnly,
			ModuleSchedule:          viewOnly,
			ModuleDTR:               viewOnly,
			ModuleEmployeeDirectory: viewOnly,
			ModuleRequests:          {CanView: true, CanEdit: true},
			ModulePayDisputes:       viewOnly,
			ModuleIRNTELogs:         viewOnly,
			ModuleOnboarding:        viewOnly,
		},
	},
	{
		Name:        "human_resource",
		DisplayName: "Human Resource",
		Description: "Full HR & People module access",
		Grants: map[string]PermissionSet{
			ModuleDashboard:         viewOnly,
			ModuleEmployeeDirectory: fullAccess,
			ModuleRequests:          fullAccess,
			ModulePayDisputes:       fullAccess,
			ModuleIRNTELogs:         fullAccess,
			ModuleOnboarding:        fullAccess,
		},
	},
	{
		Name:        "finance",
		DisplayName: "Finance",
		Description: "Finance and payroll access",
		Grants: map[string]PermissionSet{
			ModuleDashboard:         viewOnly,
			ModuleEmployeeDirectory: viewOnly,
			ModulePayDisputes:       {CanView: true, CanCreate: true, CanEdit: true},
			ModuleDTR:               viewOnly,
		},
	},
	{
		Name:        "it",
		DisplayName: "IT",
		Description: "IT and system administration",
		Grants: map[string]PermissionSet{
			ModuleDashboard:         viewOnly,
			ModuleUserManagement:    {CanView: true, CanCreate: true, CanEdit: true},
			ModuleSystemSettings:    {CanView: true, CanEdit: true},
			ModuleEmployeeDirectory: viewOnly,
		},
	},
	{
		Name:        "project_manager",
		DisplayName: "Project Manager",
		Description: "Project and team management",
		Grants: map[string]PermissionSet{
			ModuleDashboard:         viewOnly,
			ModuleSchedule:          {CanView: true, CanCreate: true, CanEdit: true},
			ModuleDTR:               viewOnly,
			ModuleEmployeeDirectory: viewOnly,
			ModuleRequests:          {CanView: true, CanEdit: true},
		},
	},
	{
		Name:        "supervisor",
		DisplayName: "Supervisor",
		Description: "Team supervisor - operations focus",
		Grants: map[string]PermissionSet{
			ModuleDashboard:         viewOnly,
			ModuleSchedule:          {CanView: true, CanCreate: true, CanEdit: true},
			ModuleDTR:               {CanView: true, CanCreate: true, CanEdit: true},
			ModuleEmployeeDirectory: viewOnly,
			ModuleRequests:          {CanView: true, CanCreate: true, CanEdit: true},
			ModuleIRNTELogs:         {CanView: true, CanCreate: true, CanEdit: true},
		},
	},
	{
		Name:        "manager",
		DisplayName: "Manager",
		Description: "Operations manager - full operations access",
		Grants: map[string]PermissionSet{
			ModuleDashboard:         viewOnly,
			ModuleSchedule:          fullAccess,
			ModuleDTR:               fullAccess,
			ModuleEmployeeDirectory: {CanView: true, CanEdit: true},
			ModuleRequests:          fullAccess,
			ModuleIRNTELogs:         {CanView: true, CanCreate: true, CanEdit: true},
		},
	},
	{
		Name:        "agent",
		DisplayName: "Agent",
		Description: "Regular employee - basic access",
		Grants: map[string]PermissionSet{
			ModuleDashboard: viewOnly,
			ModuleDTR:       {CanView: true, CanCreate: true},
			ModuleRequests:  {CanView: true, CanCreate: true},
		},
	},
}

// Seed installs the module catalog and the built-in system roles with their
// default grants. Existing rows are left untouched so re-running the seeder
// never clobbers admin edits.
func Seed(repo Repository, logger *slog.Logger) error {
	moduleIDs := make(map[string]int64, len(seedModules))

	for _, sm := range seedModules {
		existing, err := repo.GetModuleByName(sm.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			moduleIDs[sm.Name] = existing.ID
			continue
		}

		module := &Module{
			Name:        sm.Name,
			DisplayName: sm.DisplayName,
			Description: sm.DisplayName,
			Category:    sm.Category,
			Icon:        sm.Icon,
			Route:       sm.Route,
			SortOrder:   sm.SortOrder,
			IsActive:    true,
		}
		if err := repo.CreateModule(module); err != nil {
			return err
		}
		moduleIDs[sm.Name] = module.ID
		logger.Info("module seeded", "module", sm.Name)
	}

	for _, sr := range seedRoles {
		existing, err := repo.GetRoleByName(sr.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		role := &Role{
			Name:         sr.Name,
			DisplayName:  sr.DisplayName,
			Description:  sr.Description,
			IsSystemRole: true,
		}
		if err := repo.CreateRole(role); err != nil {
			return err
		}

		for moduleName, set := range sr.Grants {
			moduleID, ok := moduleIDs[moduleName]
			if !ok {
				continue
			}
			perm := &RolePermission{
				RoleID:        role.ID,
				ModuleID:      moduleID,
				PermissionSet: set,
			}
			if err := repo.UpsertRolePermission(perm); err != nil {
				return err
			}
		}
		logger.Info("system role seeded", "role", sr.Name, "grants", len(sr.Grants))
	}

	return nil
}
