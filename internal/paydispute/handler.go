package paydispute

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/core/common/query"
	"github.com/bpohub/workforce/internal/transport"
	"github.com/bpohub/workforce/pkg/logger"
)

type ServiceAPI interface {
	CreateDispute(dto CreateDisputeDTO, createdBy int64) (*PayDispute, error)
	GetDispute(id int64) (*PayDispute, error)
	GetDisputeByRefNo(refNo string) (*PayDispute, error)
	UpdateDispute(id int64, dto UpdateDisputeDTO) (*PayDispute, error)
	DeleteDispute(id int64) error
	ListDisputes(f Filter) (query.ListResponse, error)
	Statistics(dateFrom, dateTo *time.Time) (*Statistics, error)
	FilterOptions() (*FilterOptions, error)
	AddComment(disputeID, userID int64, dto CommentDTO) (*Comment, error)
	Comments(disputeID int64, includeInternal bool) ([]*Comment, error)
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
	resp, err := h.Service.ListDisputes(filterFromRequest(r))
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

	dispute, err := h.Service.GetDispute(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dispute)
}

func (h *Handler) GetByRefNo(w http.ResponseWriter, r *http.Request) {
	dispute, err := h.Service.GetDisputeByRefNo(chi.URLParam(r, "refNo"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dispute)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateDisputeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	dispute, err := h.Service.CreateDispute(dto, user.ID)
	if err != nil {
		h.Logger.Error("Create: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, query.MutationResponse{
		Status:  "success",
		Message: "dispute filed as " + dispute.RefNo,
		ID:      dispute.ID,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var dto UpdateDisputeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dispute, err := h.Service.UpdateDispute(id, dto)
	if err != nil {
		h.Logger.Error("Update: service error", "error", err, "dispute_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, query.MutationResponse{
		Status:  "success",
		Message: "dispute updated",
		ID:      dispute.ID,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteDispute(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, query.MutationResponse{Status: "success", Message: "dispute deleted"})
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	f := filterFromRequest(r)

	result, err := h.Service.Statistics(f.DateFrom, f.DateTo)
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

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var dto CommentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	comment, err := h.Service.AddComment(id, user.ID, dto)
	if err != nil {
		h.Logger.Error("AddComment: service error", "error", err, "dispute_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, query.MutationResponse{
		Status:  "success",
		Message: "comment added",
		ID:      comment.ID,
	})
}

func (h *Handler) Comments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	includeInternal := r.URL.Query().Get("include_internal") != "false"
	comments, err := h.Service.Comments(id, includeInternal)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// filterFromRequest maps the dispute query string onto listing filters.
func filterFromRequest(r *http.Request) Filter {
	q := r.URL.Query()

	f := Filter{
		Params: query.Params{
			Search:    q.Get("search"),
			Campaign:  q.Get("campaign"),
			Status:    q.Get("status"),
			SortBy:    q.Get("sort_by"),
			SortOrder: q.Get("sort_order"),
		},
		DisputeType: q.Get("dispute_type"),
		Priority:    q.Get("priority"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		f.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = limit
	}
	if assignee, err := strconv.ParseInt(q.Get("assigned_to"), 10, 64); err == nil {
		f.AssignedTo = assignee
	}
	if from, err := time.Parse(dateLayout, q.Get("date_from")); err == nil {
		f.DateFrom = &from
	}
	if to, err := time.Parse(dateLayout, q.Get("date_to")); err == nil {
		f.DateTo = &to
	}
	return f
}
