package dtr

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"strconv"
	"time"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/core/common/query"
	"github.com/bpohub/workforce/internal/core/common/stats"
	"github.com/bpohub/workforce/internal/core/common/tabular"
	"github.com/bpohub/workforce/internal/core/events"
	"github.com/bpohub/workforce/internal/employee"
)

// allowed sort columns for the DTR listing
var dtrSortColumns = []string{"date", "status", "total_hours", "overtime_hours"}

// uploadColumns are the headers a bulk DTR file must carry. Punch and remark
// columns are optional.
var uploadColumns = []string{"employee_no", "date"}

// Repository defines the data access methods for daily time records.
type Repository interface {
	Create(rec *DailyTimeRecord) error
	GetByID(id int64) (*DailyTimeRecord, error)
	List(params query.Params) ([]*DailyTimeRecord, int64, error)
	ListAll(params query.Params) ([]*DailyTimeRecord, error)
	ListRange(from, to *time.Time) ([]*DailyTimeRecord, error)
	Update(rec *DailyTimeRecord) error
	Delete(id int64) error
	DistinctCampaigns() ([]string, error)
	DistinctShifts() ([]string, error)
	DistinctStatuses() ([]string, error)
	FindEmployeeByNo(employeeNo string) (*employee.Employee, error)
}

// Service handles daily time record business logic
type Service struct {
	repo   Repository
	cfg    internal.AttendanceConfig
	events *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, cfg internal.AttendanceConfig, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg,
		events: bus,
		logger: logger,
	}
}

// CreateDTR records one employee-day. Status and hours come from the
// classifier; a manual entry with an explicit status keeps the supplied
// values untouched.
func (s *Service) CreateDTR(dto CreateDTRDTO) (*DailyTimeRecord, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rec := &DailyTimeRecord{
		UserID:         dto.UserID,
		Date:           dto.RecordDate(),
		ScheduledShift: dto.ScheduledShift,
		TimeIn:         dto.TimeIn,
		TimeOut:        dto.TimeOut,
		BreakIn:        dto.BreakIn,
		BreakOut:       dto.BreakOut,
		Remarks:        dto.Remarks,
		IsManualEntry:  dto.IsManualEntry,
	}

	if dto.IsManualEntry && dto.Status != "" {
		status, _ := ParseStatus(dto.Status)
		rec.Status = status
		rec.TotalHours = dto.TotalHours
		rec.OvertimeHours = dto.OvertimeHours
	} else if err := s.classify(rec, dto.OnLeave); err != nil {
		return nil, err
	}

	if err := s.repo.Create(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) GetDTR(id int64) (*DailyTimeRecord, error) {
	rec, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, internal.ErrDTRNotFound
	}
	return rec, nil
}

// UpdateDTR applies punch edits and re-derives the status. A manual entry
// with an explicit status in the edit keeps that status; everything else goes
// back through the classifier.
func (s *Service) UpdateDTR(id int64, dto UpdateDTRDTO) (*DailyTimeRecord, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.GetDTR(id)
	if err != nil {
		return nil, err
	}

	if dto.ScheduledShift != nil {
		rec.ScheduledShift = *dto.ScheduledShift
	}
	applyPunch(&rec.TimeIn, dto.TimeIn)
	applyPunch(&rec.TimeOut, dto.TimeOut)
	applyPunch(&rec.BreakIn, dto.BreakIn)
	applyPunch(&rec.BreakOut, dto.BreakOut)
	if dto.Remarks != nil {
		rec.Remarks = *dto.Remarks
	}

	onLeave := rec.Status == StatusOnLeave
	if dto.OnLeave != nil {
		onLeave = *dto.OnLeave
	}

	if rec.IsManualEntry {
		// manual rows keep their hand-entered status and hours
		if dto.Status != nil && *dto.Status != "" {
			status, _ := ParseStatus(*dto.Status)
			rec.Status = status
		}
	} else if err := s.classify(rec, onLeave); err != nil {
		return nil, err
	}

	if err := s.repo.Update(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) DeleteDTR(id int64) error {
	if _, err := s.GetDTR(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// ListDTRs returns one page of time records with exact pagination metadata.
func (s *Service) ListDTRs(params query.Params) (query.ListResponse, error) {
	params.Normalize(dtrSortColumns, "date", s.cfg.DefaultPageLimit, s.cfg.MaxPageLimit)

	records, totalCount, err := s.repo.List(params)
	if err != nil {
		return query.ListResponse{}, err
	}
	return query.NewListResponse(records, params, totalCount), nil
}

// Statistics aggregates attendance over an optional date window. The average
// only counts days that actually have hours.
func (s *Service) Statistics(dateFrom, dateTo *time.Time) (*Statistics, error) {
	records, err := s.repo.ListRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	var totalOvertime, totalHours float64
	var hoursCount int
	for _, rec := range records {
		totalOvertime += rec.OvertimeHours
		if rec.TotalHours > 0 {
			totalHours += rec.TotalHours
			hoursCount++
		}
	}

	avg := 0.0
	if hoursCount > 0 {
		avg = totalHours / float64(hoursCount)
	}

	return &Statistics{
		TotalRecords: len(records),
		StatusBreakdown: stats.CountBy(records, func(r *DailyTimeRecord) string {
			return string(r.Status)
		}),
		TotalOvertimeHours: stats.Round2(totalOvertime),
		AverageHoursPerDay: stats.Round2(avg),
	}, nil
}

// FilterOptions returns the distinct values for the DTR filter dropdowns.
func (s *Service) FilterOptions() (*FilterOptions, error) {
	campaigns, err := s.repo.DistinctCampaigns()
	if err != nil {
		return nil, err
	}
	shifts, err := s.repo.DistinctShifts()
	if err != nil {
		return nil, err
	}
	statuses, err := s.repo.DistinctStatuses()
	if err != nil {
		return nil, err
	}
	return &FilterOptions{Campaigns: campaigns, Shifts: shifts, Statuses: statuses}, nil
}

// BulkUpload ingests a CSV or XLSX time sheet. Rows fail individually; every
// row after a bad one is still processed.
func (s *Service) BulkUpload(filename string, data []byte) (*tabular.UploadSummary, error) {
	rows, appErr := tabular.Parse(filename, data, uploadColumns)
	if appErr != nil {
		return nil, appErr
	}
	if len(rows) > s.cfg.MaxUploadRows {
		return nil, internal.NewValidationError("file exceeds the row limit", internal.ErrCodeUnreadableFile)
	}

	summary := &tabular.UploadSummary{}
	for _, row := range rows {
		if err := s.uploadRow(row); err != nil {
			summary.Rejected++
			summary.Errors = append(summary.Errors, tabular.RowError{Row: row.Line, Reason: err.Error()})
			continue
		}
		summary.Accepted++
	}

	s.logger.Info("dtr upload processed",
		"file", filename, "accepted", summary.Accepted, "rejected", summary.Rejected)

	if s.events != nil {
		event := events.NewDTRBulkUploadedEvent(filename, summary.Accepted, summary.Rejected)
		if err := s.events.Publish(context.Background(), event); err != nil {
			s.logger.Warn("failed to publish dtr upload event", "file", filename, "error", err)
		}
	}

	return summary, nil
}

func (s *Service) uploadRow(row tabular.Row) error {
	emp, err := s.repo.FindEmployeeByNo(row.Get("employee_no"))
	if err != nil {
		return err
	}
	if emp == nil {
		return internal.NewValidationError("unknown employee_no: "+row.Get("employee_no"), internal.ErrCodeEmployeeNotFound)
	}

	dto := CreateDTRDTO{
		UserID:         emp.ID,
		Date:           row.Get("date"),
		ScheduledShift: row.Get("scheduled_shift"),
		TimeIn:         optionalCell(row, "time_in"),
		TimeOut:        optionalCell(row, "time_out"),
		BreakIn:        optionalCell(row, "break_in"),
		BreakOut:       optionalCell(row, "break_out"),
		Remarks:        row.Get("remarks"),
	}
	_, err = s.CreateDTR(dto)
	return err
}

// ExportCSV renders the filtered, unpaginated record set as a CSV download.
func (s *Service) ExportCSV(params query.Params) ([]byte, error) {
	params.Normalize(dtrSortColumns, "date", s.cfg.DefaultPageLimit, s.cfg.MaxPageLimit)

	records, err := s.repo.ListAll(params)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Employee No", "Employee Name", "Date", "Scheduled Shift",
		"Time In", "Time Out", "Break In", "Break Out",
		"Total Hours", "Overtime Hours", "Status", "Remarks",
	}
	if err := w.Write(header); err != nil {
		return nil, internal.NewInternalError("failed to write export", err)
	}

	for _, rec := range records {
		record := []string{
			rec.EmployeeNo, rec.EmployeeName, rec.Date.Format(dateLayout), rec.ScheduledShift,
			punchCell(rec.TimeIn), punchCell(rec.TimeOut), punchCell(rec.BreakIn), punchCell(rec.BreakOut),
			strconv.FormatFloat(rec.TotalHours, 'f', 2, 64),
			strconv.FormatFloat(rec.OvertimeHours, 'f', 2, 64),
			string(rec.Status), rec.Remarks,
		}
		if err := w.Write(record); err != nil {
			return nil, internal.NewInternalError("failed to write export", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, internal.NewInternalError("failed to write export", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) classify(rec *DailyTimeRecord, onLeave bool) error {
	result, err := Classify(rec.ScheduledShift, Punches{
		TimeIn:   rec.TimeIn,
		TimeOut:  rec.TimeOut,
		BreakIn:  rec.BreakIn,
		BreakOut: rec.BreakOut,
	}, onLeave, s.cfg.LateGrace)
	if err != nil {
		return err
	}

	rec.Status = result.Status
	rec.TotalHours = result.TotalHours
	rec.OvertimeHours = result.OvertimeHours
	return nil
}

// applyPunch treats an empty string in an edit as clearing the punch.
func applyPunch(target **string, value *string) {
	if value == nil {
		return
	}
	if *value == "" {
		*target = nil
		return
	}
	*target = value
}

func punchCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optionalCell(row tabular.Row, column string) *string {
	v := row.Get(column)
	if v == "" {
		return nil
	}
	return &v
}
