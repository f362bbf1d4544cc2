package rbac

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/core/common/query"
	"github.com/bpohub/workforce/internal/transport"
	"github.com/bpohub/workforce/pkg/logger"
)

type ServiceAPI interface {
	ListRoles() ([]*Role, error)
	GetRole(id int64) (*RoleDetail, error)
	CreateRole(dto CreateRoleDTO) (*Role, error)
	UpdateRole(id int64, dto UpdateRoleDTO) (*Role, error)
	DeleteRole(id int64) error
	SetRoleDefault(roleID int64, moduleName string, set PermissionSet) error
	ListModules() ([]*Module, error)
	UserOverrides(userID int64) ([]RoleGrant, error)
	GrantOverride(userID int64, moduleName string, set PermissionSet, grantedBy int64) error
	RevokeOverride(userID int64, moduleName string) error
	AccessibleModules(subject Subject) ([]ModuleAccess, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRoles()
	if err != nil {
		h.Logger.Error("ListRoles: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"roles": roles})
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.Service.GetRole(id)
	if err != nil {
		h.Logger.Error("GetRole: service error", "error", err, "role_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := h.Service.CreateRole(dto)
	if err != nil {
		h.Logger.Error("CreateRole: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, query.MutationResponse{
		Status:  "success",
		Message: "role created",
		ID:      role.ID,
	})
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := h.Service.UpdateRole(id, dto)
	if err != nil {
		h.Logger.Error("UpdateRole: service error", "error", err, "role_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, query.MutationResponse{
		Status:  "success",
		Message: "role updated",
		ID:      role.ID,
	})
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.DeleteRole(id); err != nil {
		h.Logger.Error("DeleteRole: service error", "error", err, "role_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, query.MutationResponse{Status: "success", Message: "role deleted"})
}

func (h *Handler) SetRoleDefault(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var dto GrantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.SetRoleDefault(id, dto.Module, dto.Set()); err != nil {
		h.Logger.Error("SetRoleDefault: service error", "error", err, "role_id", id, "module", dto.Module)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, query.MutationResponse{Status: "success", Message: "role permissions updated"})
}

func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.Service.ListModules()
	if err != nil {
		h.Logger.Error("ListModules: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"modules": modules})
}

func (h *Handler) GetUserOverrides(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	overrides, err := h.Service.UserOverrides(userID)
	if err != nil {
		h.Logger.Error("GetUserOverrides: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"overrides": overrides})
}

func (h *Handler) GrantUserOverride(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var dto GrantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.GrantOverride(userID, dto.Module, dto.Set(), actor.ID); err != nil {
		h.Logger.Error("GrantUserOverride: service error", "error", err, "user_id", userID, "module", dto.Module)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, query.MutationResponse{Status: "success", Message: "override granted"})
}

func (h *Handler) RevokeUserOverride(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	module := chi.URLParam(r, "module")

	if err := h.Service.RevokeOverride(userID, module); err != nil {
		h.Logger.Error("RevokeUserOverride: service error", "error", err, "user_id", userID, "module", module)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, query.MutationResponse{Status: "success", Message: "override revoked"})
}

// GetMyModules lists the caller's accessible modules for navigation.
func (h *Handler) GetMyModules(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	modules, err := h.Service.AccessibleModules(Subject{
		UserID:   user.ID,
		RoleID:   user.RoleID,
		IsActive: user.IsActive,
	})
	if err != nil {
		h.Logger.Error("GetMyModules: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"modules": modules})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
