package rbac

import (
	"log/slog"

	"github.com/bpohub/workforce/internal"
)

// Repository is the full data-access surface for role and permission
// administration.
type Repository interface {
	ResolverRepository

	ListRoles() ([]*Role, error)
	GetRoleByID(id int64) (*Role, error)
	GetRoleByName(name string) (*Role, error)
	CreateRole(role *Role) error
	UpdateRole(role *Role) error
	DeleteRole(id int64) error

	ListModules() ([]*Module, error)
	CreateModule(module *Module) error

	ListRoleGrants(roleID int64) ([]*RolePermission, error)
	UpsertRolePermission(perm *RolePermission) error

	ListUserOverrideRows(userID int64) ([]*UserPermission, error)
	UpsertUserOverride(perm *UserPermission) error
	DeleteUserOverride(userID, moduleID int64) error
}

// Service handles role and permission administration.
type Service struct {
	repo     Repository
	resolver *Resolver
	logger   *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: NewResolver(repo, logger),
		logger:   logger,
	}
}

// Resolver exposes the permission resolver for gates and the auth layer.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

func (s *Service) ListRoles() ([]*Role, error) {
	return s.repo.ListRoles()
}

func (s *Service) ListModules() ([]*Module, error) {
	return s.repo.ListModules()
}

// RoleGrant pairs a role's default permission set with its module name for
// the role-detail view.
type RoleGrant struct {
	Module      string `json:"module"`
	DisplayName string `json:"module_display_name"`
	PermissionSet
}

type RoleDetail struct {
	Role   *Role       `json:"role"`
	Grants []RoleGrant `json:"grants"`
}

func (s *Service) GetRole(id int64) (*RoleDetail, error) {
	role, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, internal.NewNotFoundError("Role not found", internal.ErrCodeUnknownRole)
	}

	rows, err := s.repo.ListRoleGrants(role.ID)
	if err != nil {
		return nil, err
	}

	modules, err := s.repo.ListModules()
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*Module, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}

	grants := make([]RoleGrant, 0, len(rows))
	for _, row := range rows {
		module, ok := byID[row.ModuleID]
		if !ok {
			continue
		}
		grants = append(grants, RoleGrant{
			Module:        module.Name,
			DisplayName:   module.DisplayName,
			PermissionSet: row.PermissionSet,
		})
	}

	return &RoleDetail{Role: role, Grants: grants}, nil
}

func (s *Service) CreateRole(dto CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetRoleByName(dto.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("Role name already exists", internal.ErrCodeUnknownRole)
	}

	role := &Role{
		Name:        dto.Name,
		DisplayName: dto.DisplayName,
		Description: dto.Description,
	}
	if err := s.repo.CreateRole(role); err != nil {
		return nil, err
	}

	s.logger.Info("role created", "role", role.Name, "role_id", role.ID)
	return role, nil
}

// UpdateRole changes display metadata; system roles keep their name.
func (s *Service) UpdateRole(id int64, dto UpdateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, internal.NewNotFoundError("Role not found", internal.ErrCodeUnknownRole)
	}

	if dto.Name != "" && dto.Name != role.Name {
		if role.IsSystemRole {
			return nil, internal.NewForbiddenError("System roles cannot be renamed", internal.ErrCodeSystemRole)
		}
		existing, err := s.repo.GetRoleByName(dto.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, internal.NewConflictError("Role name already exists", internal.ErrCodeUnknownRole)
		}
		role.Name = dto.Name
	}
	if dto.DisplayName != "" {
		role.DisplayName = dto.DisplayName
	}
	if dto.Description != "" {
		role.Description = dto.Description
	}

	if err := s.repo.UpdateRole(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *Service) DeleteRole(id int64) error {
	role, err := s.repo.GetRoleByID(id)
	if err != nil {
		return err
	}
	if role == nil {
		return internal.NewNotFoundError("Role not found", internal.ErrCodeUnknownRole)
	}
	if role.IsSystemRole {
		return internal.NewForbiddenError("System roles cannot be deleted", internal.ErrCodeSystemRole)
	}
	return s.repo.DeleteRole(id)
}

// SetRoleDefault writes a role's default permission set on one module.
func (s *Service) SetRoleDefault(roleID int64, moduleName string, set PermissionSet) error {
	role, err := s.repo.GetRoleByID(roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return internal.NewNotFoundError("Role not found", internal.ErrCodeUnknownRole)
	}

	module, err := s.repo.GetModuleByName(moduleName)
	if err != nil {
		return err
	}
	if module == nil {
		return internal.NewValidationError("unknown module: "+moduleName, internal.ErrCodeUnknownModule)
	}

	return s.repo.UpsertRolePermission(&RolePermission{
		RoleID:        roleID,
		ModuleID:      module.ID,
		PermissionSet: set,
	})
}

// GrantOverride writes a user-level override for one module. The override
// replaces the role default for that pair entirely.
func (s *Service) GrantOverride(userID int64, moduleName string, set PermissionSet, grantedBy int64) error {
	module, err := s.repo.GetModuleByName(moduleName)
	if err != nil {
		return err
	}
	if module == nil {
		return internal.NewValidationError("unknown module: "+moduleName, internal.ErrCodeUnknownModule)
	}

	perm := &UserPermission{
		UserID:        userID,
		ModuleID:      module.ID,
		PermissionSet: set,
	}
	if grantedBy != 0 {
		perm.GrantedBy = &grantedBy
	}

	if err := s.repo.UpsertUserOverride(perm); err != nil {
		return err
	}

	s.logger.Info("user permission override granted",
		"user_id", userID, "module", moduleName, "granted_by", grantedBy)
	return nil
}

func (s *Service) RevokeOverride(userID int64, moduleName string) error {
	module, err := s.repo.GetModuleByName(moduleName)
	if err != nil {
		return err
	}
	if module == nil {
		return internal.NewValidationError("unknown module: "+moduleName, internal.ErrCodeUnknownModule)
	}

	if err := s.repo.DeleteUserOverride(userID, module.ID); err != nil {
		return err
	}

	s.logger.Info("user permission override revoked", "user_id", userID, "module", moduleName)
	return nil
}

// UserOverrides lists a user's override rows with module names attached.
func (s *Service) UserOverrides(userID int64) ([]RoleGrant, error) {
	rows, err := s.repo.ListUserOverrideRows(userID)
	if err != nil {
		return nil, err
	}

	modules, err := s.repo.ListModules()
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*Module, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}

	out := make([]RoleGrant, 0, len(rows))
	for _, row := range rows {
		module, ok := byID[row.ModuleID]
		if !ok {
			continue
		}
		out = append(out, RoleGrant{
			Module:        module.Name,
			DisplayName:   module.DisplayName,
			PermissionSet: row.PermissionSet,
		})
	}
	return out, nil
}

// AccessibleModules resolves the subject's navigable modules.
func (s *Service) AccessibleModules(subject Subject) ([]ModuleAccess, error) {
	return s.resolver.EffectivePermissions(subject)
}
