package paydispute

import (
	"time"
)

// DisputeStatus is the workflow state of a pay dispute. Values are a closed
// set; transitions are checked by the service.
type DisputeStatus string

const (
	StatusOpen        DisputeStatus = "Open"
	StatusUnderReview DisputeStatus = "Under Review"
	StatusApproved    DisputeStatus = "Approved"
	StatusRejected    DisputeStatus = "Rejected"
	StatusPaid        DisputeStatus = "Paid"
)

// AllStatuses lists every valid dispute status, in workflow order.
var AllStatuses = []DisputeStatus{
	StatusOpen,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
	StatusPaid,
}

func ParseStatus(s string) (DisputeStatus, bool) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// statusTransitions is the allowed workflow graph. Rejected and Paid are
// terminal.
var statusTransitions = map[DisputeStatus][]DisputeStatus{
	StatusOpen:        {StatusUnderReview, StatusApproved, StatusRejected},
	StatusUnderReview: {StatusApproved, StatusRejected},
	StatusApproved:    {StatusPaid},
}

// CanTransition reports whether a dispute may move from one status to another.
func CanTransition(from, to DisputeStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Priorities lists the valid priority values, lowest first.
var Priorities = []string{"Low", "Medium", "High", "Urgent"}

func ValidPriority(p string) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

// PayDispute is one payroll correction ticket. AmountClaimed is what the
// employee says is missing; AmountApproved is what payroll signed off on.
// The cutoff dates bound the pay period under dispute.
type PayDispute struct {
	ID              int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	RefNo           string        `json:"ref_no" gorm:"column:ref_no;uniqueIndex;size:32;not null"`
	EmployeeID      int64         `json:"employee_id" gorm:"column:employee_id;not null;index"`
	DisputeType     string        `json:"dispute_type" gorm:"column:dispute_type;size:64;not null"`
	CutoffStart     *time.Time    `json:"cutoff_start,omitempty" gorm:"column:cutoff_start;type:date"`
	CutoffEnd       *time.Time    `json:"cutoff_end,omitempty" gorm:"column:cutoff_end;type:date"`
	AmountClaimed   float64       `json:"amount_claimed" gorm:"column:amount_claimed"`
	AmountApproved  *float64      `json:"amount_approved,omitempty" gorm:"column:amount_approved"`
	Subject         string        `json:"subject" gorm:"size:255"`
	Description     string        `json:"description"`
	Status          DisputeStatus `json:"status" gorm:"size:32;default:Open"`
	Priority        string        `json:"priority" gorm:"size:16;default:Medium"`
	AssignedTo      *int64        `json:"assigned_to,omitempty" gorm:"column:assigned_to"`
	ResolutionNotes string        `json:"resolution_notes,omitempty" gorm:"column:resolution_notes"`
	ResolvedDate    *time.Time    `json:"resolved_date,omitempty" gorm:"column:resolved_date;type:date"`
	CreatedBy       int64         `json:"created_by" gorm:"column:created_by"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// joined from users, not persisted here
	EmployeeName string `json:"employee_name,omitempty" gorm:"->;-:migration"`
	EmployeeNo   string `json:"employee_no,omitempty" gorm:"->;-:migration"`
	Campaign     string `json:"campaign,omitempty" gorm:"->;-:migration"`
	AssigneeName string `json:"assignee_name,omitempty" gorm:"->;-:migration"`
}

func (PayDispute) TableName() string {
	return "pay_disputes"
}

// Comment is one entry on a dispute's thread. Internal comments are hidden
// from the employee-facing view.
type Comment struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	DisputeID  int64     `json:"dispute_id" gorm:"column:dispute_id;not null;index"`
	UserID     int64     `json:"user_id" gorm:"column:user_id;not null"`
	Comment    string    `json:"comment" gorm:"not null"`
	IsInternal bool      `json:"is_internal" gorm:"column:is_internal;default:false"`
	CreatedAt  time.Time `json:"created_at"`

	UserName string `json:"user_name,omitempty" gorm:"->;-:migration"`
}

func (Comment) TableName() string {
	return "pay_dispute_comments"
}

// Statistics is the dashboard aggregate for pay disputes.
type Statistics struct {
	TotalDisputes       int            `json:"total_disputes"`
	StatusBreakdown     map[string]int `json:"status_breakdown"`
	TotalClaimedAmount  float64        `json:"total_claimed_amount"`
	TotalApprovedAmount float64        `json:"total_approved_amount"`
}

// AssigneeOption is an assignee entry for the filter dropdowns.
type AssigneeOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FilterOptions holds the distinct values the dispute UI filters on.
type FilterOptions struct {
	Campaigns    []string         `json:"campaigns"`
	DisputeTypes []string         `json:"dispute_types"`
	Statuses     []string         `json:"statuses"`
	Priorities   []string         `json:"priorities"`
	Assignees    []AssigneeOption `json:"assignees"`
}
