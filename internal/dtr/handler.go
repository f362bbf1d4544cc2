package dtr

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/bpohub/workforce/internal/core/common/query"
	"github.com/bpohub/workforce/internal/core/common/tabular"
	"github.com/bpohub/workforce/internal/transport"
	"github.com/bpohub/workforce/pkg/logger"
)

const maxUploadBytes = 10 << 20

type ServiceAPI interface {
	CreateDTR(dto CreateDTRDTO) (*DailyTimeRecord, error)
	GetDTR(id int64) (*DailyTimeRecord, error)
	UpdateDTR(id int64, dto UpdateDTRDTO) (*DailyTimeRecord, error)
	DeleteDTR(id int64) error
	ListDTRs(params query.Params) (query.ListResponse, error)
	Statistics(dateFrom, dateTo *time.Time) (*Statistics, error)
	FilterOptions() (*FilterOptions, error)
	BulkUpload(filename string, data []byte) (*tabular.UploadSummary, error)
	ExportCSV(params query.Params) ([]byte, error)
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
	resp, err := h.Service.ListDTRs(paramsFromRequest(r))
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

	rec, err := h.Service.GetDTR(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateDTRDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.CreateDTR(dto)
	if err != nil {
		h.Logger.Error("Create: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, query.MutationResponse{
		Status:  "success",
		Message: "time record created",
		ID:      rec.ID,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var dto UpdateDTRDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.UpdateDTR(id, dto)
	if err != nil {
		h.Logger.Error("Update: service error", "error", err, "dtr_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, query.MutationResponse{
		Status:  "success",
		Message: "time record updated",
		ID:      rec.ID,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteDTR(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, query.MutationResponse{Status: "success", Message: "time record deleted"})
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	params := paramsFromRequest(r)

	result, err := h.Service.Statistics(params.DateFrom, params.DateTo)
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

func (h *Handler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	summary, err := h.Service.BulkUpload(header.Filename, data)
	if err != nil {
		h.Logger.Error("BulkUpload: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.ExportCSV(paramsFromRequest(r))
	if err != nil {
		h.Logger.Error("Export: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="dtr_export.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("Export: write failed", "error", err)
	}
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// paramsFromRequest maps the DTR query string onto listing params.
func paramsFromRequest(r *http.Request) query.Params {
	q := r.URL.Query()

	params := query.Params{
		Search:    q.Get("search"),
		Campaign:  q.Get("campaign"),
		Shift:     q.Get("shift"),
		Status:    q.Get("status"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}
	if from, err := time.Parse(dateLayout, q.Get("date_from")); err == nil {
		params.DateFrom = &from
	}
	if to, err := time.Parse(dateLayout, q.Get("date_to")); err == nil {
		params.DateTo = &to
	}
	return params
}
