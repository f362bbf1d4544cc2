package schedule

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/bpohub/workforce/internal/core/common/query"
	"github.com/bpohub/workforce/internal/core/common/tabular"
	"github.com/bpohub/workforce/internal/transport"
	"github.com/bpohub/workforce/pkg/logger"
)

const maxUploadBytes = 10 << 20

type ServiceAPI interface {
	WeeklySchedule(weekStart time.Time, search, campaign, shift string) ([]WeeklyRow, error)
	SaveShift(dto SaveShiftDTO) (*ShiftSchedule, error)
	PublishWeek(dto PublishWeekDTO) (int64, error)
	BulkUpload(filename string, data []byte) (*tabular.UploadSummary, error)
	ExportCSV(weekStart time.Time, search, campaign, shift string) ([]byte, error)
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

func (h *Handler) Weekly(w http.ResponseWriter, r *http.Request) {
	weekStart, ok := h.weekStart(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	rows, err := h.Service.WeeklySchedule(weekStart, q.Get("search"), q.Get("campaign"), q.Get("shift"))
	if err != nil {
		h.Logger.Error("Weekly: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"week_start": weekStart.Format(dateLayout),
		"schedules":  rows,
	})
}

func (h *Handler) SaveShift(w http.ResponseWriter, r *http.Request) {
	var dto SaveShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sched, err := h.Service.SaveShift(dto)
	if err != nil {
		h.Logger.Error("SaveShift: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, query.MutationResponse{
		Status:  "success",
		Message: "shift saved",
		ID:      sched.ID,
	})
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	var dto PublishWeekDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	count, err := h.Service.PublishWeek(dto)
	if err != nil {
		h.Logger.Error("Publish: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"published": count,
	})
}

func (h *Handler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.uploadFile(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.BulkUpload(filename, data)
	if err != nil {
		h.Logger.Error("BulkUpload: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	weekStart, ok := h.weekStart(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	data, err := h.Service.ExportCSV(weekStart, q.Get("search"), q.Get("campaign"), q.Get("shift"))
	if err != nil {
		h.Logger.Error("Export: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule_`+weekStart.Format(dateLayout)+`.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("Export: write failed", "error", err)
	}
}

func (h *Handler) weekStart(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	weekStart, err := time.Parse(dateLayout, r.URL.Query().Get("week_start"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "week_start must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return weekStart, true
}

func (h *Handler) uploadFile(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart request")
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "file field is required")
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "could not read uploaded file")
		return "", nil, false
	}
	return header.Filename, data, true
}
