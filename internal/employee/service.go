package employee

import (
	"log/slog"
	"time"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/core/common/query"
	"github.com/bpohub/workforce/internal/core/common/stats"
	"github.com/bpohub/workforce/internal/rbac"
)

// allowed sort columns for the directory listing
var directorySortColumns = []string{
	"full_name", "employee_no", "campaign", "department",
	"date_of_joining", "last_working_date", "employee_status", "phone_no",
}

// Repository defines the data access methods for the employee directory.
type Repository interface {
	Create(emp *Employee) error
	GetByID(id int64) (*Employee, error)
	GetByEmployeeNo(employeeNo string) (*Employee, error)
	GetByEmail(email string) (*Employee, error)
	List(params query.Params, excludeRoleID int64) ([]*Employee, int64, error)
	ListAll(excludeRoleID int64) ([]*Employee, error)
	Update(emp *Employee) error
	Delete(id int64) error
	BulkUpdateStatus(ids []int64, status EmployeeStatus) (int64, error)
	DistinctValues(column string) ([]string, error)
}

// RoleDirectory is the slice of the rbac surface the directory needs.
type RoleDirectory interface {
	GetRoleByName(name string) (*rbac.Role, error)
	ListRoles() ([]*rbac.Role, error)
}

// PasswordHasher hashes initial passwords for new accounts.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// Service handles employee directory business logic
type Service struct {
	repo   Repository
	roles  RoleDirectory
	hasher PasswordHasher
	cfg    internal.AttendanceConfig
	logger *slog.Logger
}

func NewService(repo Repository, roles RoleDirectory, hasher PasswordHasher, cfg internal.AttendanceConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		roles:  roles,
		hasher: hasher,
		cfg:    cfg,
		logger: logger,
	}
}

// CreateEmployee provisions a directory entry together with its login account.
func (s *Service) CreateEmployee(dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("employee validation failed", "error", err)
		return nil, err
	}

	role, err := s.roles.GetRoleByName(dto.RoleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, internal.NewValidationError("unknown role: "+dto.RoleName, internal.ErrCodeUnknownRole)
	}

	existing, err := s.repo.GetByEmployeeNo(dto.EmployeeNo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("Employee number already exists", internal.ErrCodeDuplicateEmployee)
	}

	existing, err = s.repo.GetByEmail(dto.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("Email already exists", internal.ErrCodeDuplicateEmail)
	}

	passwordHash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, err
	}

	emp := &Employee{
		EmployeeNo:         dto.EmployeeNo,
		Email:              dto.Email,
		FullName:           dto.FullName,
		PasswordHash:       passwordHash,
		RoleID:             role.ID,
		RoleName:           role.Name,
		Campaign:           dto.Campaign,
		Department:         dto.Department,
		PhoneNo:            dto.PhoneNo,
		PersonalEmail:      dto.PersonalEmail,
		ClientEmail:        dto.ClientEmail,
		DateOfJoining:      dto.DateOfJoining,
		LastWorkingDate:    dto.LastWorkingDate,
		TenureMonths:       CalculateTenureMonths(dto.DateOfJoining, time.Now()),
		AssessmentDueDate:  dto.AssessmentDueDate,
		RegularizationDate: dto.RegularizationDate,
		EmployeeStatus:     dto.Status(),
		IsActive:           true,
	}

	if err := s.repo.Create(emp); err != nil {
		s.logger.Error("failed to create employee", "error", err, "employee_no", dto.EmployeeNo)
		return nil, err
	}

	s.logger.Info("employee created", "employee_id", emp.ID, "employee_no", emp.EmployeeNo, "role", role.Name)
	return emp, nil
}

func (s *Service) GetEmployee(id int64) (*Employee, error) {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return emp, nil
}

// UpdateEmployee applies a partial update, re-deriving tenure when the
// joining date changes.
func (s *Service) UpdateEmployee(id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, internal.ErrEmployeeNotFound
	}

	if dto.EmployeeNo != nil && *dto.EmployeeNo != emp.EmployeeNo {
		existing, err := s.repo.GetByEmployeeNo(*dto.EmployeeNo)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, internal.NewConflictError("Employee number already exists", internal.ErrCodeDuplicateEmployee)
		}
		emp.EmployeeNo = *dto.EmployeeNo
	}

	if dto.Email != nil && *dto.Email != emp.Email {
		existing, err := s.repo.GetByEmail(*dto.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, internal.NewConflictError("Email already exists", internal.ErrCodeDuplicateEmail)
		}
		emp.Email = *dto.Email
	}

	if dto.RoleName != nil {
		role, err := s.roles.GetRoleByName(*dto.RoleName)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, internal.NewValidationError("unknown role: "+*dto.RoleName, internal.ErrCodeUnknownRole)
		}
		emp.RoleID = role.ID
		emp.RoleName = role.Name
	}

	if dto.FullName != nil {
		emp.FullName = *dto.FullName
	}
	if dto.Campaign != nil {
		emp.Campaign = *dto.Campaign
	}
	if dto.Department != nil {
		emp.Department = *dto.Department
	}
	if dto.PhoneNo != nil {
		emp.PhoneNo = *dto.PhoneNo
	}
	if dto.PersonalEmail != nil {
		emp.PersonalEmail = *dto.PersonalEmail
	}
	if dto.ClientEmail != nil {
		emp.ClientEmail = *dto.ClientEmail
	}
	if dto.LastWorkingDate != nil {
		emp.LastWorkingDate = dto.LastWorkingDate
	}
	if dto.AssessmentDueDate != nil {
		emp.AssessmentDueDate = dto.AssessmentDueDate
	}
	if dto.RegularizationDate != nil {
		emp.RegularizationDate = dto.RegularizationDate
	}
	if dto.EmployeeStatus != nil {
		status, _ := ParseStatus(*dto.EmployeeStatus)
		emp.EmployeeStatus = status
	}
	if dto.IsActive != nil {
		emp.IsActive = *dto.IsActive
	}
	if dto.DateOfJoining != nil {
		emp.DateOfJoining = dto.DateOfJoining
		emp.TenureMonths = CalculateTenureMonths(dto.DateOfJoining, time.Now())
	}

	if err := s.repo.Update(emp); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, err
	}

	s.logger.Info("employee updated", "employee_id", id)
	return emp, nil
}

func (s *Service) DeleteEmployee(id int64) error {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if emp == nil {
		return internal.ErrEmployeeNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return err
	}
	s.logger.Info("employee deleted", "employee_id", id, "employee_no", emp.EmployeeNo)
	return nil
}

// ListEmployees returns a directory page. Admin accounts never appear.
func (s *Service) ListEmployees(params query.Params) (query.ListResponse, error) {
	params.Normalize(directorySortColumns, "full_name", s.cfg.DefaultPageLimit, s.cfg.MaxPageLimit)

	excludeRoleID, err := s.adminRoleID()
	if err != nil {
		return query.ListResponse{}, err
	}

	employees, totalCount, err := s.repo.List(params, excludeRoleID)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return query.ListResponse{}, err
	}

	return query.NewListResponse(employees, params, totalCount), nil
}

// Statistics aggregates directory counts for the dashboard.
func (s *Service) Statistics() (*Statistics, error) {
	excludeRoleID, err := s.adminRoleID()
	if err != nil {
		return nil, err
	}

	employees, err := s.repo.ListAll(excludeRoleID)
	if err != nil {
		return nil, err
	}

	result := &Statistics{
		TotalEmployees:      len(employees),
		StatusBreakdown:     stats.CountBy(employees, func(e *Employee) string { return string(e.EmployeeStatus) }),
		DepartmentBreakdown: stats.CountBy(employees, func(e *Employee) string { return e.Department }),
		CampaignBreakdown:   stats.CountBy(employees, func(e *Employee) string { return e.Campaign }),
	}
	for _, emp := range employees {
		if emp.IsActive {
			result.ActiveEmployees++
		}
	}
	result.InactiveEmployees = result.TotalEmployees - result.ActiveEmployees
	result.ActiveRate = stats.Percent(result.ActiveEmployees, result.TotalEmployees)

	return result, nil
}

// FilterOptions returns the distinct values for the directory filter dropdowns.
func (s *Service) FilterOptions() (*FilterOptions, error) {
	opts := &FilterOptions{
		Campaigns:   []string{},
		Departments: []string{},
		Statuses:    make([]string, 0, len(AllStatuses)),
		Roles:       []RoleOption{},
	}
	for _, status := range AllStatuses {
		opts.Statuses = append(opts.Statuses, string(status))
	}

	campaigns, err := s.repo.DistinctValues("campaign")
	if err != nil {
		return nil, err
	}
	opts.Campaigns = campaigns

	departments, err := s.repo.DistinctValues("department")
	if err != nil {
		return nil, err
	}
	opts.Departments = departments

	roles, err := s.roles.ListRoles()
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if role.Name == "admin" {
			continue
		}
		opts.Roles = append(opts.Roles, RoleOption{Name: role.Name, DisplayName: role.DisplayName})
	}

	return opts, nil
}

// BulkUpdateStatus sets the status on every listed employee and reports how
// many rows changed.
func (s *Service) BulkUpdateStatus(dto BulkStatusDTO) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	status, _ := ParseStatus(dto.Status)
	updated, err := s.repo.BulkUpdateStatus(dto.EmployeeIDs, status)
	if err != nil {
		s.logger.Error("bulk status update failed", "error", err, "count", len(dto.EmployeeIDs))
		return 0, err
	}

	s.logger.Info("bulk status update", "requested", len(dto.EmployeeIDs), "updated", updated, "status", dto.Status)
	return updated, nil
}

func (s *Service) adminRoleID() (int64, error) {
	admin, err := s.roles.GetRoleByName("admin")
	if err != nil {
		return 0, err
	}
	if admin == nil {
		return 0, nil
	}
	return admin.ID, nil
}
