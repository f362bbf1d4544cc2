package dtr

import (
	"time"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/core/common/clock"
)

const dateLayout = "2006-01-02"

// CreateDTRDTO represents the request payload for creating a time record.
// Status and hours are derived from the punches unless IsManualEntry is set
// together with an explicit Status.
type CreateDTRDTO struct {
	UserID         int64   `json:"user_id"`
	Date           string  `json:"date"`
	ScheduledShift string  `json:"scheduled_shift,omitempty"`
	TimeIn         *string `json:"time_in,omitempty"`
	TimeOut        *string `json:"time_out,omitempty"`
	BreakIn        *string `json:"break_in,omitempty"`
	BreakOut       *string `json:"break_out,omitempty"`
	TotalHours     float64 `json:"total_hours,omitempty"`
	OvertimeHours  float64 `json:"overtime_hours,omitempty"`
	Status         string  `json:"status,omitempty"`
	Remarks        string  `json:"remarks,omitempty"`
	IsManualEntry  bool    `json:"is_manual_entry,omitempty"`
	OnLeave        bool    `json:"on_leave,omitempty"`
}

func (dto CreateDTRDTO) Validate() error {
	if dto.UserID <= 0 {
		return internal.NewValidationError("user_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.Date == "" {
		return internal.NewValidationError("date is required", internal.ErrCodeValidationFailed)
	}
	if _, err := time.Parse(dateLayout, dto.Date); err != nil {
		return internal.NewValidationError("date must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	if dto.Status != "" {
		if _, ok := ParseStatus(dto.Status); !ok {
			return internal.NewValidationError("invalid status: "+dto.Status, internal.ErrCodeInvalidStatus)
		}
	}
	return validatePunches(dto.TimeIn, dto.TimeOut, dto.BreakIn, dto.BreakOut)
}

// RecordDate returns the parsed date. Call Validate first.
func (dto CreateDTRDTO) RecordDate() time.Time {
	d, _ := time.Parse(dateLayout, dto.Date)
	return d
}

// UpdateDTRDTO represents a partial edit of a time record. Pointer fields
// distinguish "leave unchanged" from "clear".
type UpdateDTRDTO struct {
	ScheduledShift *string `json:"scheduled_shift,omitempty"`
	TimeIn         *string `json:"time_in,omitempty"`
	TimeOut        *string `json:"time_out,omitempty"`
	BreakIn        *string `json:"break_in,omitempty"`
	BreakOut       *string `json:"break_out,omitempty"`
	Status         *string `json:"status,omitempty"`
	Remarks        *string `json:"remarks,omitempty"`
	OnLeave        *bool   `json:"on_leave,omitempty"`
}

func (dto UpdateDTRDTO) Validate() error {
	if dto.Status != nil && *dto.Status != "" {
		if _, ok := ParseStatus(*dto.Status); !ok {
			return internal.NewValidationError("invalid status: "+*dto.Status, internal.ErrCodeInvalidStatus)
		}
	}
	return validatePunches(dto.TimeIn, dto.TimeOut, dto.BreakIn, dto.BreakOut)
}

func validatePunches(values ...*string) error {
	for _, v := range values {
		if v == nil || *v == "" {
			continue
		}
		if _, err := clock.ParseLabel(*v); err != nil {
			return internal.NewValidationError("invalid punch time: "+*v, internal.ErrCodeInvalidTimeRange)
		}
	}
	return nil
}
