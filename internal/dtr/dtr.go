package dtr

import (
	"time"
)

// DTRStatus is the attendance outcome for one employee-day. Values are a
// closed set; anything else is rejected at the DTO layer.
type DTRStatus string

const (
	StatusPresent    DTRStatus = "Present"
	StatusLate       DTRStatus = "Late"
	StatusAbsent     DTRStatus = "Absent"
	StatusIncomplete DTRStatus = "Incomplete"
	StatusOnLeave    DTRStatus = "On Leave"
	StatusRestDay    DTRStatus = "Rest Day"
)

// AllStatuses lists every valid DTR status, in dropdown order.
var AllStatuses = []DTRStatus{
	StatusPresent,
	StatusLate,
	StatusAbsent,
	StatusIncomplete,
	StatusOnLeave,
	StatusRestDay,
}

func ParseStatus(s string) (DTRStatus, bool) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// DailyTimeRecord is one employee's attendance row for one calendar date.
// Punches are "HH:MM" strings; break punches are optional. TotalHours and
// OvertimeHours are derived by the classifier unless the row is a manual
// entry.
type DailyTimeRecord struct {
	ID             int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID         int64     `json:"user_id" gorm:"not null;index"`
	Date           time.Time `json:"date" gorm:"type:date;not null;index"`
	ScheduledShift string    `json:"scheduled_shift" gorm:"column:scheduled_shift;size:64"`
	TimeIn         *string   `json:"time_in" gorm:"column:time_in;size:8"`
	TimeOut        *string   `json:"time_out" gorm:"column:time_out;size:8"`
	BreakIn        *string   `json:"break_in" gorm:"column:break_in;size:8"`
	BreakOut       *string   `json:"break_out" gorm:"column:break_out;size:8"`
	TotalHours     float64   `json:"total_hours" gorm:"column:total_hours"`
	OvertimeHours  float64   `json:"overtime_hours" gorm:"column:overtime_hours"`
	Status         DTRStatus `json:"status" gorm:"size:32"`
	Remarks        string    `json:"remarks"`
	IsManualEntry  bool      `json:"is_manual_entry" gorm:"column:is_manual_entry;default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// joined from users, not persisted here
	EmployeeName string `json:"employee_name,omitempty" gorm:"->;-:migration"`
	EmployeeNo   string `json:"employee_no,omitempty" gorm:"->;-:migration"`
	Campaign     string `json:"campaign,omitempty" gorm:"->;-:migration"`
}

func (DailyTimeRecord) TableName() string {
	return "daily_time_records"
}

// Statistics is the dashboard aggregate for attendance.
type Statistics struct {
	TotalRecords       int            `json:"total_records"`
	StatusBreakdown    map[string]int `json:"status_breakdown"`
	TotalOvertimeHours float64        `json:"total_overtime_hours"`
	AverageHoursPerDay float64        `json:"average_hours_per_day"`
}

// FilterOptions holds the distinct values the DTR UI filters on.
type FilterOptions struct {
	Campaigns []string `json:"campaigns"`
	Shifts    []string `json:"shifts"`
	Statuses  []string `json:"statuses"`
}
