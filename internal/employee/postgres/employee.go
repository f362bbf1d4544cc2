package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/bpohub/workforce/internal/core/common/query"
	"github.com/bpohub/workforce/internal/employee"
)

// EmployeeRepository implements the employee.Repository interface using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(emp *employee.Employee) error {
	return r.db.Create(emp).Error
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	return r.getOne("users.id = ?", id)
}

func (r *EmployeeRepository) GetByEmployeeNo(employeeNo string) (*employee.Employee, error) {
	return r.getOne("users.employee_no = ?", employeeNo)
}

func (r *EmployeeRepository) GetByEmail(email string) (*employee.Employee, error) {
	return r.getOne("users.email = ?", email)
}

func (r *EmployeeRepository) getOne(cond string, arg interface{}) (*employee.Employee, error) {
	var emp employee.Employee
	err := r.db.Table("users").
		Select("users.*, roles.name AS role_name").
		Joins("LEFT JOIN roles ON roles.id = users.role_id").
		Where(cond, arg).
		First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

// List returns one directory page plus the unpaginated match count.
func (r *EmployeeRepository) List(params query.Params, excludeRoleID int64) ([]*employee.Employee, int64, error) {
	base := r.directoryQuery(excludeRoleID)

	if params.Search != "" {
		term := "%" + params.Search + "%"
		base = base.Where(
			"users.full_name ILIKE ? OR users.employee_no ILIKE ? OR users.email ILIKE ?",
			term, term, term,
		)
	}
	if params.Campaign != "" {
		base = base.Where("users.campaign = ?", params.Campaign)
	}
	if params.Department != "" {
		base = base.Where("users.department = ?", params.Department)
	}
	if params.Status != "" {
		base = base.Where("users.employee_status = ?", params.Status)
	}
	if params.RoleName != "" {
		base = base.Where("roles.name = ?", params.RoleName)
	}

	var totalCount int64
	if err := base.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var employees []*employee.Employee
	err := base.
		Order("users." + params.OrderClause()).
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}

	return employees, totalCount, nil
}

func (r *EmployeeRepository) ListAll(excludeRoleID int64) ([]*employee.Employee, error) {
	var employees []*employee.Employee
	err := r.directoryQuery(excludeRoleID).Find(&employees).Error
	return employees, err
}

func (r *EmployeeRepository) directoryQuery(excludeRoleID int64) *gorm.DB {
	q := r.db.Table("users").
		Select("users.*, roles.name AS role_name").
		Joins("LEFT JOIN roles ON roles.id = users.role_id")
	if excludeRoleID != 0 {
		q = q.Where("users.role_id IS NULL OR users.role_id <> ?", excludeRoleID)
	}
	return q
}

func (r *EmployeeRepository) Update(emp *employee.Employee) error {
	emp.UpdatedAt = time.Now()
	return r.db.Save(emp).Error
}

func (r *EmployeeRepository) Delete(id int64) error {
	return r.db.Delete(&employee.Employee{}, id).Error
}

func (r *EmployeeRepository) BulkUpdateStatus(ids []int64, status employee.EmployeeStatus) (int64, error) {
	result := r.db.Model(&employee.Employee{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"employee_status": string(status),
			"updated_at":      time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DistinctValues lists the non-empty distinct entries of one users column,
// sorted ascending. Used for filter dropdowns.
func (r *EmployeeRepository) DistinctValues(column string) ([]string, error) {
	var values []string
	err := r.db.Table("users").
		Distinct(column).
		Where(column + " IS NOT NULL AND " + column + " <> ''").
		Order(column + " ASC").
		Pluck(column, &values).Error
	return values, err
}
