package rbac

import (
	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/core/common/validation"
)

type CreateRoleDTO struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
}

func (dto CreateRoleDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MinLength(2).MaxLength(50)
	v.Field("display_name", dto.DisplayName).Required().MaxLength(100)
	v.Field("description", dto.Description).MaxLength(255)
	return v.Validate()
}

type UpdateRoleDTO struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Description string `json:"description,omitempty"`
}

func (dto UpdateRoleDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).MaxLength(50)
	v.Field("display_name", dto.DisplayName).MaxLength(100)
	v.Field("description", dto.Description).MaxLength(255)
	return v.Validate()
}

// GrantDTO carries a permission set for a role default or user override on
// one module.
type GrantDTO struct {
	Module    string `json:"module"`
	CanView   bool   `json:"can_view"`
	CanCreate bool   `json:"can_create"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}

func (dto GrantDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("module", dto.Module).Required().MaxLength(50)
	return v.Validate()
}

func (dto GrantDTO) Set() PermissionSet {
	return PermissionSet{
		CanView:   dto.CanView,
		CanCreate: dto.CanCreate,
		CanEdit:   dto.CanEdit,
		CanDelete: dto.CanDelete,
	}
}
