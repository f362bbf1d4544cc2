package rbac

import (
	"time"
)

// Action is one of the four capabilities a permission grant carries.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionView, ActionCreate, ActionEdit, ActionDelete:
		return Action(s), true
	}
	return "", false
}

// Module categories group entries for navigation.
const (
	CategoryDashboard  = "dashboard"
	CategoryOperations = "operations"
	CategoryHRPeople   = "hr_people"
	CategoryAdmin      = "admin"
)

// Canonical module names. Route registration and the seeder both key off
// these, so they must match the rows in the modules table.
const (
	ModuleDashboard         = "dashboard"
	ModuleSchedule          = "schedule"
	ModuleDTR               = "dtr"
	ModuleEmployeeDirectory = "employee_directory"
	ModuleRequests          = "requests"
	ModulePayDisputes       = "pay_disputes"
	ModuleIRNTELogs         = "ir_nte_logs"
	ModuleOnboarding        = "onboarding"
	ModuleUserManagement    = "user_management"
	ModuleRoleManagement    = "role_management"
	ModuleSystemSettings    = "system_settings"
)

type Role struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"uniqueIndex;size:50;not null"`
	DisplayName  string    `json:"display_name" gorm:"size:100"`
	Description  string    `json:"description" gorm:"size:255"`
	IsSystemRole bool      `json:"is_system_role" gorm:"column:is_system_role;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

type Module struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;size:50;not null"`
	DisplayName string `json:"display_name" gorm:"size:100"`
	Description string `json:"description" gorm:"size:255"`
	Category    string `json:"category" gorm:"size:50"`
	Icon        string `json:"icon" gorm:"size:100"`
	Route       string `json:"route" gorm:"size:100"`
	SortOrder   int    `json:"sort_order" gorm:"default:0"`
	// No gorm default: gorm would swap an explicit false for the column
	// default on insert. Callers set the flag themselves.
	IsActive bool `json:"is_active"`
}

func (Module) TableName() string {
	return "modules"
}

// PermissionSet is the four independent capability flags of one grant.
type PermissionSet struct {
	CanView   bool `json:"can_view" gorm:"default:false"`
	CanCreate bool `json:"can_create" gorm:"default:false"`
	CanEdit   bool `json:"can_edit" gorm:"default:false"`
	CanDelete bool `json:"can_delete" gorm:"default:false"`
}

func (p PermissionSet) Allows(action Action) bool {
	switch action {
	case ActionView:
		return p.CanView
	case ActionCreate:
		return p.CanCreate
	case ActionEdit:
		return p.CanEdit
	case ActionDelete:
		return p.CanDelete
	}
	return false
}

// RolePermission is a role's default grant on a module.
type RolePermission struct {
	ID       int64 `json:"id" gorm:"primaryKey"`
	RoleID   int64 `json:"role_id" gorm:"column:role_id;not null;index:idx_role_module,unique"`
	ModuleID int64 `json:"module_id" gorm:"column:module_id;not null;index:idx_role_module,unique"`
	PermissionSet
}

func (RolePermission) TableName() string {
	return "role_module_permissions"
}

// UserPermission is a per-user override. When a row exists for a
// (user, module) pair it replaces the role default for that pair outright.
type UserPermission struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	UserID    int64  `json:"user_id" gorm:"column:user_id;not null;index:idx_user_module,unique"`
	ModuleID  int64  `json:"module_id" gorm:"column:module_id;not null;index:idx_user_module,unique"`
	GrantedBy *int64 `json:"granted_by,omitempty" gorm:"column:granted_by"`
	PermissionSet
}

func (UserPermission) TableName() string {
	return "user_module_permissions"
}

// ModuleAccess is a module with the caller's resolved capabilities, used for
// the accessible-modules listing.
type ModuleAccess struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Icon        string `json:"icon,omitempty"`
	Route       string `json:"route,omitempty"`
	PermissionSet
}
