package schedule

import (
	"time"

	"github.com/bpohub/workforce/internal"
)

const dateLayout = "2006-01-02"

// SaveShiftDTO represents the request payload for assigning or editing a shift
type SaveShiftDTO struct {
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"date"`
	ShiftTime  string `json:"shift_time"`
	Campaign   string `json:"campaign,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func (dto SaveShiftDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return internal.NewValidationError("employee_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.Date == "" {
		return internal.NewValidationError("date is required", internal.ErrCodeValidationFailed)
	}
	if _, err := time.Parse(dateLayout, dto.Date); err != nil {
		return internal.NewValidationError("date must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	if dto.ShiftTime == "" {
		return internal.NewValidationError("shift_time is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ScheduleDate returns the parsed date. Call Validate first.
func (dto SaveShiftDTO) ScheduleDate() time.Time {
	d, _ := time.Parse(dateLayout, dto.Date)
	return d
}

// PublishWeekDTO represents the request payload for publishing a week
type PublishWeekDTO struct {
	WeekStart string `json:"week_start"`
}

func (dto PublishWeekDTO) Validate() error {
	if dto.WeekStart == "" {
		return internal.NewValidationError("week_start is required", internal.ErrCodeValidationFailed)
	}
	if _, err := time.Parse(dateLayout, dto.WeekStart); err != nil {
		return internal.NewValidationError("week_start must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	return nil
}

func (dto PublishWeekDTO) Start() time.Time {
	d, _ := time.Parse(dateLayout, dto.WeekStart)
	return d
}
