package employee

import (
	"time"

	"github.com/bpohub/workforce/internal"
)

// CreateEmployeeDTO represents the request payload for creating an employee
type CreateEmployeeDTO struct {
	EmployeeNo         string     `json:"employee_no"`
	Email              string     `json:"email"`
	FullName           string     `json:"full_name"`
	Password           string     `json:"password"`
	RoleName           string     `json:"role_name"`
	Campaign           string     `json:"campaign,omitempty"`
	Department         string     `json:"department,omitempty"`
	PhoneNo            string     `json:"phone_no,omitempty"`
	PersonalEmail      string     `json:"personal_email,omitempty"`
	ClientEmail        string     `json:"client_email,omitempty"`
	DateOfJoining      *time.Time `json:"date_of_joining,omitempty"`
	LastWorkingDate    *time.Time `json:"last_working_date,omitempty"`
	AssessmentDueDate  *time.Time `json:"assessment_due_date,omitempty"`
	RegularizationDate *time.Time `json:"regularization_date,omitempty"`
	EmployeeStatus     string     `json:"employee_status,omitempty"`
}

func (dto CreateEmployeeDTO) Validate() error {
	if dto.EmployeeNo == "" {
		return internal.NewValidationError("employee_no is required", internal.ErrCodeValidationFailed)
	}
	if dto.Email == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeValidationFailed)
	}
	if dto.FullName == "" {
		return internal.NewValidationError("full_name is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Password) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if dto.RoleName == "" {
		return internal.NewValidationError("role_name is required", internal.ErrCodeValidationFailed)
	}
	if dto.EmployeeStatus != "" {
		if _, ok := ParseStatus(dto.EmployeeStatus); !ok {
			return internal.NewValidationError("invalid employee_status: "+dto.EmployeeStatus, internal.ErrCodeInvalidStatus)
		}
	}
	return nil
}

// Status returns the validated status, defaulting new records to Active.
func (dto CreateEmployeeDTO) Status() EmployeeStatus {
	if dto.EmployeeStatus == "" {
		return StatusActive
	}
	status, _ := ParseStatus(dto.EmployeeStatus)
	return status
}

// UpdateEmployeeDTO carries partial updates; nil pointers leave fields alone.
type UpdateEmployeeDTO struct {
	EmployeeNo         *string    `json:"employee_no,omitempty"`
	Email              *string    `json:"email,omitempty"`
	FullName           *string    `json:"full_name,omitempty"`
	RoleName           *string    `json:"role_name,omitempty"`
	Campaign           *string    `json:"campaign,omitempty"`
	Department         *string    `json:"department,omitempty"`
	PhoneNo            *string    `json:"phone_no,omitempty"`
	PersonalEmail      *string    `json:"personal_email,omitempty"`
	ClientEmail        *string    `json:"client_email,omitempty"`
	DateOfJoining      *time.Time `json:"date_of_joining,omitempty"`
	LastWorkingDate    *time.Time `json:"last_working_date,omitempty"`
	AssessmentDueDate  *time.Time `json:"assessment_due_date,omitempty"`
	RegularizationDate *time.Time `json:"regularization_date,omitempty"`
	EmployeeStatus     *string    `json:"employee_status,omitempty"`
	IsActive           *bool      `json:"is_active,omitempty"`
}

func (dto UpdateEmployeeDTO) Validate() error {
	if dto.EmployeeNo != nil && *dto.EmployeeNo == "" {
		return internal.NewValidationError("employee_no cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Email != nil && *dto.Email == "" {
		return internal.NewValidationError("email cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.EmployeeStatus != nil {
		if _, ok := ParseStatus(*dto.EmployeeStatus); !ok {
			return internal.NewValidationError("invalid employee_status: "+*dto.EmployeeStatus, internal.ErrCodeInvalidStatus)
		}
	}
	return nil
}

// BulkStatusDTO updates the status of several employees at once.
type BulkStatusDTO struct {
	EmployeeIDs []int64 `json:"employee_ids"`
	Status      string  `json:"status"`
}

func (dto BulkStatusDTO) Validate() error {
	if len(dto.EmployeeIDs) == 0 {
		return internal.NewValidationError("employee_ids is required", internal.ErrCodeValidationFailed)
	}
	if _, ok := ParseStatus(dto.Status); !ok {
		return internal.NewValidationError("invalid status: "+dto.Status, internal.ErrCodeInvalidStatus)
	}
	return nil
}
