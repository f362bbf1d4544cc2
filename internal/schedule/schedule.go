package schedule

import (
	"time"
)

// DayNames are the grid columns of the weekly view, Monday first. Week starts
// are always Mondays.
var DayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// ShiftSchedule is one employee's shift assignment for one calendar date.
// ShiftStart and ShiftEnd are minutes from midnight parsed out of the
// ShiftTime label; ShiftEnd may be numerically smaller for shifts that cross
// midnight.
type ShiftSchedule struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       int64     `json:"user_id" gorm:"not null;index:idx_schedule_user_date,unique"`
	ScheduleDate time.Time `json:"schedule_date" gorm:"type:date;not null;index:idx_schedule_user_date,unique"`
	DayOfWeek    string    `json:"day_of_week" gorm:"size:16"`
	ShiftTime    string    `json:"shift_time" gorm:"size:64;not null"`
	ShiftStart   int       `json:"shift_start"`
	ShiftEnd     int       `json:"shift_end"`
	Campaign     string    `json:"campaign" gorm:"size:128"`
	Notes        string    `json:"notes"`
	IsPublished  bool      `json:"is_published" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ShiftSchedule) TableName() string {
	return "shift_schedules"
}

// WeeklyRow is one employee's line on the weekly grid. Shifts maps day name to
// the shift label, nil for days off or days hidden by an active filter.
type WeeklyRow struct {
	EmployeeID   int64              `json:"employee_id"`
	EmployeeName string             `json:"employee_name"`
	EmployeeNo   string             `json:"employee_no"`
	Campaign     string             `json:"campaign"`
	Shifts       map[string]*string `json:"schedules"`
}
