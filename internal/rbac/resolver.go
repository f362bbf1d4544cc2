package rbac

import (
	"log/slog"

	"github.com/bpohub/workforce/internal"
)

// Subject is the minimal view of a user the resolver needs.
type Subject struct {
	UserID   int64
	RoleID   int64
	IsActive bool
}

// ResolverRepository is the read surface the resolver consults. The Get
// methods return (nil, nil) when no row exists for the pair.
type ResolverRepository interface {
	GetModuleByName(name string) (*Module, error)
	GetRolePermission(roleID, moduleID int64) (*PermissionSet, error)
	GetUserOverride(userID, moduleID int64) (*PermissionSet, error)
	ListActiveModules() ([]*Module, error)
	ListRolePermissions(roleID int64) (map[int64]PermissionSet, error)
	ListUserOverrides(userID int64) (map[int64]PermissionSet, error)
}

// Resolver computes effective permissions from two tiers: role defaults and
// per-user overrides. An override row for a (user, module) pair wins outright;
// individual flags are never merged across the two tiers.
type Resolver struct {
	repo   ResolverRepository
	logger *slog.Logger
}

func NewResolver(repo ResolverRepository, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, logger: logger}
}

// Resolve answers whether the subject may perform action on the named module.
// Deny-by-default: no override and no role default means false. An inactive
// subject resolves every action to false regardless of grants.
func (r *Resolver) Resolve(subject Subject, moduleName string, action Action) (bool, error) {
	if _, ok := ParseAction(string(action)); !ok {
		return false, internal.NewValidationError("unknown action: "+string(action), internal.ErrCodeUnknownAction)
	}

	module, err := r.repo.GetModuleByName(moduleName)
	if err != nil {
		return false, err
	}
	if module == nil || !module.IsActive {
		return false, internal.NewValidationError("unknown module: "+moduleName, internal.ErrCodeUnknownModule)
	}

	if !subject.IsActive {
		return false, nil
	}

	override, err := r.repo.GetUserOverride(subject.UserID, module.ID)
	if err != nil {
		return false, err
	}
	if override != nil {
		return override.Allows(action), nil
	}

	if subject.RoleID == 0 {
		return false, nil
	}

	roleDefault, err := r.repo.GetRolePermission(subject.RoleID, module.ID)
	if err != nil {
		return false, err
	}
	if roleDefault != nil {
		return roleDefault.Allows(action), nil
	}

	return false, nil
}

// EffectivePermissions returns every active module the subject can view, with
// the capability set that applies, ordered by the module sort order. Modules
// where the effective set denies view are omitted.
func (r *Resolver) EffectivePermissions(subject Subject) ([]ModuleAccess, error) {
	if !subject.IsActive {
		return []ModuleAccess{}, nil
	}

	modules, err := r.repo.ListActiveModules()
	if err != nil {
		return nil, err
	}

	var roleDefaults map[int64]PermissionSet
	if subject.RoleID != 0 {
		roleDefaults, err = r.repo.ListRolePermissions(subject.RoleID)
		if err != nil {
			return nil, err
		}
	}

	overrides, err := r.repo.ListUserOverrides(subject.UserID)
	if err != nil {
		return nil, err
	}

	// ListActiveModules returns rows ordered by sort_order, so appending in
	// iteration order keeps the navigation ordering.
	accessible := make([]ModuleAccess, 0, len(modules))
	for _, module := range modules {
		set, ok := overrides[module.ID]
		if !ok {
			set, ok = roleDefaults[module.ID]
		}
		if !ok || !set.CanView {
			continue
		}
		accessible = append(accessible, ModuleAccess{
			Name:          module.Name,
			DisplayName:   module.DisplayName,
			Category:      module.Category,
			Icon:          module.Icon,
			Route:         module.Route,
			PermissionSet: set,
		})
	}

	return accessible, nil
}
