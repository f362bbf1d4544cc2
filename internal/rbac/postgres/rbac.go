package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bpohub/workforce/internal/rbac"
)

// RBACRepository implements the rbac.Repository interface using GORM
type RBACRepository struct {
	db *gorm.DB
}

// NewRBACRepository creates a new rbac repository
func NewRBACRepository(db *gorm.DB) rbac.Repository {
	return &RBACRepository{db: db}
}

func (r *RBACRepository) GetModuleByName(name string) (*rbac.Module, error) {
	var module rbac.Module
	err := r.db.Where("name = ?", name).First(&module).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &module, nil
}

func (r *RBACRepository) GetRolePermission(roleID, moduleID int64) (*rbac.PermissionSet, error) {
	var perm rbac.RolePermission
	err := r.db.Where("role_id = ? AND module_id = ?", roleID, moduleID).First(&perm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &perm.PermissionSet, nil
}

func (r *RBACRepository) GetUserOverride(userID, moduleID int64) (*rbac.PermissionSet, error) {
	var perm rbac.UserPermission
	err := r.db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&perm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &perm.PermissionSet, nil
}

func (r *RBACRepository) ListActiveModules() ([]*rbac.Module, error) {
	var modules []*rbac.Module
	err := r.db.Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&modules).Error
	return modules, err
}

func (r *RBACRepository) ListRolePermissions(roleID int64) (map[int64]rbac.PermissionSet, error) {
	var rows []*rbac.RolePermission
	if err := r.db.Where("role_id = ?", roleID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[int64]rbac.PermissionSet, len(rows))
	for _, row := range rows {
		out[row.ModuleID] = row.PermissionSet
	}
	return out, nil
}

func (r *RBACRepository) ListUserOverrides(userID int64) (map[int64]rbac.PermissionSet, error) {
	var rows []*rbac.UserPermission
	if err := r.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[int64]rbac.PermissionSet, len(rows))
	for _, row := range rows {
		out[row.ModuleID] = row.PermissionSet
	}
	return out, nil
}

func (r *RBACRepository) ListRoles() ([]*rbac.Role, error) {
	var roles []*rbac.Role
	err := r.db.Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *RBACRepository) GetRoleByID(id int64) (*rbac.Role, error) {
	var role rbac.Role
	err := r.db.Where("id = ?", id).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *RBACRepository) GetRoleByName(name string) (*rbac.Role, error) {
	var role rbac.Role
	err := r.db.Where("name = ?", name).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *RBACRepository) CreateRole(role *rbac.Role) error {
	return r.db.Create(role).Error
}

func (r *RBACRepository) UpdateRole(role *rbac.Role) error {
	return r.db.Save(role).Error
}

// DeleteRole removes the role together with its default grants.
func (r *RBACRepository) DeleteRole(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&rbac.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&rbac.Role{}, id).Error
	})
}

func (r *RBACRepository) ListModules() ([]*rbac.Module, error) {
	var modules []*rbac.Module
	err := r.db.Order("sort_order ASC, name ASC").Find(&modules).Error
	return modules, err
}

func (r *RBACRepository) CreateModule(module *rbac.Module) error {
	return r.db.Create(module).Error
}

func (r *RBACRepository) ListRoleGrants(roleID int64) ([]*rbac.RolePermission, error) {
	var rows []*rbac.RolePermission
	err := r.db.Where("role_id = ?", roleID).Find(&rows).Error
	return rows, err
}

func (r *RBACRepository) UpsertRolePermission(perm *rbac.RolePermission) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"can_view", "can_create", "can_edit", "can_delete"}),
	}).Create(perm).Error
}

func (r *RBACRepository) ListUserOverrideRows(userID int64) ([]*rbac.UserPermission, error) {
	var rows []*rbac.UserPermission
	err := r.db.Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (r *RBACRepository) UpsertUserOverride(perm *rbac.UserPermission) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"can_view", "can_create", "can_edit", "can_delete", "granted_by"}),
	}).Create(perm).Error
}

func (r *RBACRepository) DeleteUserOverride(userID, moduleID int64) error {
	return r.db.Where("user_id = ? AND module_id = ?", userID, moduleID).
		Delete(&rbac.UserPermission{}).Error
}
