package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeDisputeStatusChanged = "paydispute.status_changed"
	EventTypeSchedulePublished    = "schedule.week_published"
	EventTypeDTRBulkUploaded      = "dtr.bulk_uploaded"
)

// DisputeStatusChangedEvent fires whenever a pay dispute moves through its
// workflow. Subscribers use it for audit logging and payroll notifications.
type DisputeStatusChangedEvent struct {
	BaseEvent
	DisputeID  int64  `json:"dispute_id"`
	RefNo      string `json:"ref_no"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	EmployeeID int64  `json:"employee_id"`
}

func NewDisputeStatusChangedEvent(disputeID int64, refNo, fromStatus, toStatus string, employeeID int64) *DisputeStatusChangedEvent {
	return &DisputeStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDisputeStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"dispute_id":  disputeID,
				"ref_no":      refNo,
				"from_status": fromStatus,
				"to_status":   toStatus,
				"employee_id": employeeID,
			},
		},
		DisputeID:  disputeID,
		RefNo:      refNo,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		EmployeeID: employeeID,
	}
}

// SchedulePublishedEvent fires when a week of shifts goes live for agents.
type SchedulePublishedEvent struct {
	BaseEvent
	WeekStart string `json:"week_start"`
	Published int64  `json:"published"`
}

func NewSchedulePublishedEvent(weekStart string, published int64) *SchedulePublishedEvent {
	return &SchedulePublishedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSchedulePublished,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"week_start": weekStart,
				"published":  published,
			},
		},
		WeekStart: weekStart,
		Published: published,
	}
}

// DTRBulkUploadedEvent fires after a timesheet import finishes, carrying the
// accept/reject counts of the run.
type DTRBulkUploadedEvent struct {
	BaseEvent
	Filename string `json:"filename"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

func NewDTRBulkUploadedEvent(filename string, accepted, rejected int) *DTRBulkUploadedEvent {
	return &DTRBulkUploadedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDTRBulkUploaded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"filename": filename,
				"accepted": accepted,
				"rejected": rejected,
			},
		},
		Filename: filename,
		Accepted: accepted,
		Rejected: rejected,
	}
}
