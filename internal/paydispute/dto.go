package paydispute

import (
	"time"

	"github.com/bpohub/workforce/internal"
)

const dateLayout = "2006-01-02"

// CreateDisputeDTO represents the request payload for filing a pay dispute
type CreateDisputeDTO struct {
	EmployeeID    int64      `json:"employee_id"`
	DisputeType   string     `json:"dispute_type"`
	CutoffStart   *time.Time `json:"cutoff_start,omitempty"`
	CutoffEnd     *time.Time `json:"cutoff_end,omitempty"`
	AmountClaimed float64    `json:"amount_claimed"`
	Subject       string     `json:"subject"`
	Description   string     `json:"description,omitempty"`
	Priority      string     `json:"priority,omitempty"`
}

func (dto CreateDisputeDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return internal.NewValidationError("employee_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.DisputeType == "" {
		return internal.NewValidationError("dispute_type is required", internal.ErrCodeValidationFailed)
	}
	if dto.Subject == "" {
		return internal.NewValidationError("subject is required", internal.ErrCodeValidationFailed)
	}
	if dto.AmountClaimed < 0 {
		return internal.NewValidationError("amount_claimed cannot be negative", internal.ErrCodeValidationFailed)
	}
	if dto.Priority != "" && !ValidPriority(dto.Priority) {
		return internal.NewValidationError("invalid priority: "+dto.Priority, internal.ErrCodeValidationFailed)
	}
	if dto.CutoffStart != nil && dto.CutoffEnd != nil && dto.CutoffEnd.Before(*dto.CutoffStart) {
		return internal.NewValidationError("cutoff_end is before cutoff_start", internal.ErrCodeInvalidDate)
	}
	return nil
}

// EffectivePriority returns the validated priority, defaulting to Medium.
func (dto CreateDisputeDTO) EffectivePriority() string {
	if dto.Priority == "" {
		return "Medium"
	}
	return dto.Priority
}

// UpdateDisputeDTO represents a partial edit of a pay dispute. Status changes
// go through the transition check.
type UpdateDisputeDTO struct {
	DisputeType     *string    `json:"dispute_type,omitempty"`
	CutoffStart     *time.Time `json:"cutoff_start,omitempty"`
	CutoffEnd       *time.Time `json:"cutoff_end,omitempty"`
	AmountClaimed   *float64   `json:"amount_claimed,omitempty"`
	AmountApproved  *float64   `json:"amount_approved,omitempty"`
	Subject         *string    `json:"subject,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Status          *string    `json:"status,omitempty"`
	Priority        *string    `json:"priority,omitempty"`
	AssignedTo      *int64     `json:"assigned_to,omitempty"`
	ResolutionNotes *string    `json:"resolution_notes,omitempty"`
}

func (dto UpdateDisputeDTO) Validate() error {
	if dto.Status != nil {
		if _, ok := ParseStatus(*dto.Status); !ok {
			return internal.NewValidationError("invalid status: "+*dto.Status, internal.ErrCodeInvalidStatus)
		}
	}
	if dto.Priority != nil && !ValidPriority(*dto.Priority) {
		return internal.NewValidationError("invalid priority: "+*dto.Priority, internal.ErrCodeValidationFailed)
	}
	if dto.AmountClaimed != nil && *dto.AmountClaimed < 0 {
		return internal.NewValidationError("amount_claimed cannot be negative", internal.ErrCodeValidationFailed)
	}
	if dto.AmountApproved != nil && *dto.AmountApproved < 0 {
		return internal.NewValidationError("amount_approved cannot be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

// CommentDTO represents the request payload for a thread comment
type CommentDTO struct {
	Comment    string `json:"comment"`
	IsInternal bool   `json:"is_internal,omitempty"`
}

func (dto CommentDTO) Validate() error {
	if dto.Comment == "" {
		return internal.NewValidationError("comment is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
