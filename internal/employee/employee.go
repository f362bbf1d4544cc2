package employee

import (
	"time"
)

// EmployeeStatus is the lifecycle state shown in the directory. Values are a
// closed set; anything else is rejected at the DTO layer.
type EmployeeStatus string

const (
	StatusActive             EmployeeStatus = "Active"
	StatusInactive           EmployeeStatus = "Inactive"
	StatusTerminated         EmployeeStatus = "Terminated"
	StatusOnLeave            EmployeeStatus = "On Leave"
	StatusProbation          EmployeeStatus = "Probation"
	StatusNewHire            EmployeeStatus = "New Hire"
	StatusResignationPending EmployeeStatus = "Resignation Pending"
)

// AllStatuses lists every valid employee status, in dropdown order.
var AllStatuses = []EmployeeStatus{
	StatusActive,
	StatusInactive,
	StatusTerminated,
	StatusOnLeave,
	StatusProbation,
	StatusNewHire,
	StatusResignationPending,
}

func ParseStatus(s string) (EmployeeStatus, bool) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// Employee is a directory row. It maps onto the users table because every
// employee is also a login account.
type Employee struct {
	ID                 int64          `json:"id" gorm:"primaryKey"`
	EmployeeNo         string         `json:"employee_no" gorm:"column:employee_no;uniqueIndex;size:50;not null"`
	Email              string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FullName           string         `json:"full_name" gorm:"column:full_name;size:255"`
	PasswordHash       string         `json:"-" gorm:"column:password_hash;size:255"`
	RoleID             int64          `json:"role_id" gorm:"column:role_id"`
	RoleName           string         `json:"role_name,omitempty" gorm:"->;-:migration"`
	Campaign           string         `json:"campaign,omitempty" gorm:"size:100"`
	Department         string         `json:"department,omitempty" gorm:"size:100"`
	PhoneNo            string         `json:"phone_no,omitempty" gorm:"column:phone_no;size:20"`
	PersonalEmail      string         `json:"personal_email,omitempty" gorm:"column:personal_email;size:255"`
	ClientEmail        string         `json:"client_email,omitempty" gorm:"column:client_email;size:255"`
	DateOfJoining      *time.Time     `json:"date_of_joining,omitempty" gorm:"column:date_of_joining;type:date"`
	LastWorkingDate    *time.Time     `json:"last_working_date,omitempty" gorm:"column:last_working_date;type:date"`
	TenureMonths       int            `json:"tenure_months" gorm:"column:tenure_months"`
	AssessmentDueDate  *time.Time     `json:"assessment_due_date,omitempty" gorm:"column:assessment_due_date;type:date"`
	RegularizationDate *time.Time     `json:"regularization_date,omitempty" gorm:"column:regularization_date;type:date"`
	EmployeeStatus     EmployeeStatus `json:"employee_status" gorm:"column:employee_status;size:50;default:Active"`
	IsActive           bool           `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func (Employee) TableName() string {
	return "users"
}

// CalculateTenureMonths computes whole months of service from the joining date,
// counting a month only once its day of month has passed.
func CalculateTenureMonths(dateOfJoining *time.Time, now time.Time) int {
	if dateOfJoining == nil || dateOfJoining.IsZero() {
		return 0
	}

	years := now.Year() - dateOfJoining.Year()
	months := int(now.Month()) - int(dateOfJoining.Month())
	if now.Day() < dateOfJoining.Day() {
		months--
	}

	total := years*12 + months
	if total < 0 {
		return 0
	}
	return total
}

// Statistics is the dashboard aggregate for the directory.
type Statistics struct {
	TotalEmployees      int            `json:"total_employees"`
	ActiveEmployees     int            `json:"active_employees"`
	InactiveEmployees   int            `json:"inactive_employees"`
	ActiveRate          int            `json:"active_rate"`
	StatusBreakdown     map[string]int `json:"status_breakdown"`
	DepartmentBreakdown map[string]int `json:"department_breakdown"`
	CampaignBreakdown   map[string]int `json:"campaign_breakdown"`
}

// RoleOption is a role entry for the filter dropdowns.
type RoleOption struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// FilterOptions holds the distinct values the directory UI filters on.
type FilterOptions struct {
	Campaigns   []string     `json:"campaigns"`
	Departments []string     `json:"departments"`
	Statuses    []string     `json:"statuses"`
	Roles       []RoleOption `json:"roles"`
}
