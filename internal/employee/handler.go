package employee

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/bpohub/workforce/internal/core/common/query"
	"github.com/bpohub/workforce/internal/transport"
	"github.com/bpohub/workforce/pkg/logger"
)

type ServiceAPI interface {
	CreateEmployee(dto CreateEmployeeDTO) (*Employee, error)
	GetEmployee(id int64) (*Employee, error)
	UpdateEmployee(id int64, dto UpdateEmployeeDTO) (*Employee, error)
	DeleteEmployee(id int64) error
	ListEmployees(params query.Params) (query.ListResponse, error)
	Statistics() (*Statistics, error)
	FilterOptions() (*FilterOptions, error)
	BulkUpdateStatus(dto BulkStatusDTO) (int64, error)
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := paramsFromRequest(r)

	resp, err := h.Service.ListEmployees(params)
	if err != nil {
		h.Logger.Error("List: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	emp, err := h.Service.GetEmployee(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.CreateEmployee(dto)
	if err != nil {
		h.Logger.Error("Create: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, query.MutationResponse{
		Status:  "success",
		Message: "employee created",
		ID:      emp.ID,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var dto UpdateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.UpdateEmployee(id, dto)
	if err != nil {
		h.Logger.Error("Update: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, query.MutationResponse{
		Status:  "success",
		Message: "employee updated",
		ID:      emp.ID,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteEmployee(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, query.MutationResponse{Status: "success", Message: "employee deleted"})
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Statistics()
	if err != nil {
		h.Logger.Error("Statistics: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Service.FilterOptions()
	if err != nil {
		h.Logger.Error("FilterOptions: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, opts)
}

func (h *Handler) BulkStatus(w http.ResponseWriter, r *http.Request) {
	var dto BulkStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.BulkUpdateStatus(dto)
	if err != nil {
		h.Logger.Error("BulkStatus: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"updated": updated,
	})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// paramsFromRequest maps the directory query string onto listing params.
func paramsFromRequest(r *http.Request) query.Params {
	q := r.URL.Query()

	params := query.Params{
		Search:     q.Get("search"),
		Campaign:   q.Get("campaign"),
		Department: q.Get("department"),
		Status:     q.Get("employee_status"),
		RoleName:   q.Get("role_name"),
		SortBy:     q.Get("sort_by"),
		SortOrder:  q.Get("sort_order"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}
	if from, err := time.Parse("2006-01-02", q.Get("date_from")); err == nil {
		params.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", q.Get("date_to")); err == nil {
		params.DateTo = &to
	}
	return params
}
