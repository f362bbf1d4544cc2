package schedule

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"time"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/core/common/clock"
	"github.com/bpohub/workforce/internal/core/common/tabular"
	"github.com/bpohub/workforce/internal/core/events"
	"github.com/bpohub/workforce/internal/employee"
)

// uploadColumns are the headers a bulk schedule file must carry. campaign and
// notes are optional extras.
var uploadColumns = []string{"employee_no", "date", "shift_time"}

// Repository defines the data access methods for shift scheduling. Employee
// lookups live here too so uploads can resolve employee numbers against the
// same store.
type Repository interface {
	ActiveEmployees(search string) ([]*employee.Employee, error)
	FindEmployeeByNo(employeeNo string) (*employee.Employee, error)
	SchedulesForRange(from, to time.Time) ([]*ShiftSchedule, error)
	GetByEmployeeAndDate(userID int64, date time.Time) (*ShiftSchedule, error)
	Create(s *ShiftSchedule) error
	Update(s *ShiftSchedule) error
	PublishWeek(from, to time.Time) (int64, error)
}

// Service handles shift scheduling business logic
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

// WeeklySchedule builds the 7-day grid starting at weekStart. Every active
// employee gets a row; campaign and shift filters blank out non-matching days
// rather than dropping the row.
func (s *Service) WeeklySchedule(weekStart time.Time, search, campaign, shift string) ([]WeeklyRow, error) {
	weekEnd := weekStart.AddDate(0, 0, 6)

	employees, err := s.repo.ActiveEmployees(search)
	if err != nil {
		return nil, err
	}

	schedules, err := s.repo.SchedulesForRange(weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[int64]map[string]*ShiftSchedule)
	for _, sched := range schedules {
		days := byEmployee[sched.UserID]
		if days == nil {
			days = make(map[string]*ShiftSchedule, len(DayNames))
			byEmployee[sched.UserID] = days
		}
		days[sched.ScheduleDate.Format(dateLayout)] = sched
	}

	rows := make([]WeeklyRow, 0, len(employees))
	for _, emp := range employees {
		shifts := make(map[string]*string, len(DayNames))
		for i, day := range DayNames {
			dayDate := weekStart.AddDate(0, 0, i).Format(dateLayout)
			sched := byEmployee[emp.ID][dayDate]
			if sched == nil {
				shifts[day] = nil
				continue
			}
			if campaign != "" && sched.Campaign != campaign {
				shifts[day] = nil
				continue
			}
			if shift != "" && sched.ShiftTime != shift {
				shifts[day] = nil
				continue
			}
			label := sched.ShiftTime
			shifts[day] = &label
		}
		rows = append(rows, WeeklyRow{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			EmployeeNo:   emp.EmployeeNo,
			Campaign:     emp.Campaign,
			Shifts:       shifts,
		})
	}

	return rows, nil
}

// SaveShift creates or replaces the shift for one employee on one date. The
// label is re-parsed on every save so corrections flow into the stored window.
func (s *Service) SaveShift(dto SaveShiftDTO) (*ShiftSchedule, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return s.saveShift(dto.EmployeeID, dto.ScheduleDate(), dto.ShiftTime, dto.Campaign, dto.Notes)
}

func (s *Service) saveShift(userID int64, date time.Time, shiftTime, campaign, notes string) (*ShiftSchedule, error) {
	start, end, err := clock.ParseShiftLabel(shiftTime)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmployeeAndDate(userID, date)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.ShiftTime = shiftTime
		existing.ShiftStart = start
		existing.ShiftEnd = end
		existing.Campaign = campaign
		existing.Notes = notes
		if err := s.repo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	sched := &ShiftSchedule{
		UserID:       userID,
		ScheduleDate: date,
		DayOfWeek:    date.Weekday().String(),
		ShiftTime:    shiftTime,
		ShiftStart:   start,
		ShiftEnd:     end,
		Campaign:     campaign,
		Notes:        notes,
		IsPublished:  false,
	}
	if err := s.repo.Create(sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// PublishWeek marks every schedule in the 7-day window as published and
// returns how many rows flipped. There is no unpublish.
func (s *Service) PublishWeek(dto PublishWeekDTO) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	weekStart := dto.Start()
	count, err := s.repo.PublishWeek(weekStart, weekStart.AddDate(0, 0, 6))
	if err != nil {
		return 0, err
	}
	s.logger.Info("schedule week published", "week_start", dto.WeekStart, "rows", count)

	if s.events != nil && count > 0 {
		event := events.NewSchedulePublishedEvent(dto.WeekStart, count)
		if err := s.events.Publish(context.Background(), event); err != nil {
			s.logger.Warn("failed to publish schedule event", "week_start", dto.WeekStart, "error", err)
		}
	}

	return count, nil
}

// BulkUpload ingests a CSV or XLSX schedule file. Rows fail individually; a
// bad employee number or shift label on one line never aborts the rest.
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

	s.logger.Info("schedule upload processed",
		"file", filename, "accepted", summary.Accepted, "rejected", summary.Rejected)
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

	date, err := time.Parse(dateLayout, row.Get("date"))
	if err != nil {
		return internal.NewValidationError("date must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}

	_, err = s.saveShift(emp.ID, date, row.Get("shift_time"), row.Get("campaign"), row.Get("notes"))
	return err
}

// ExportCSV renders the weekly grid as a CSV download.
func (s *Service) ExportCSV(weekStart time.Time, search, campaign, shift string) ([]byte, error) {
	rows, err := s.WeeklySchedule(weekStart, search, campaign, shift)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"Employee No", "Employee Name", "Campaign"}, DayNames...)
	if err := w.Write(header); err != nil {
		return nil, internal.NewInternalError("failed to write export", err)
	}

	for _, row := range rows {
		record := []string{row.EmployeeNo, row.EmployeeName, row.Campaign}
		for _, day := range DayNames {
			if label := row.Shifts[day]; label != nil {
				record = append(record, *label)
			} else {
				record = append(record, "")
			}
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
