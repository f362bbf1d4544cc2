package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/bpohub/workforce/internal/employee"
	"github.com/bpohub/workforce/internal/schedule"
)

// ScheduleRepository implements the schedule.Repository interface using GORM
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) schedule.Repository {
	return &ScheduleRepository{db: db}
}

// ActiveEmployees returns the grid's row set ordered by name.
func (r *ScheduleRepository) ActiveEmployees(search string) ([]*employee.Employee, error) {
	q := r.db.Table("users").Where("users.is_active = ?", true)
	if search != "" {
		term := "%" + search + "%"
		q = q.Where("users.full_name ILIKE ? OR users.employee_no ILIKE ?", term, term)
	}

	var employees []*employee.Employee
	if err := q.Order("users.full_name ASC").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *ScheduleRepository) FindEmployeeByNo(employeeNo string) (*employee.Employee, error) {
	var emp employee.Employee
	err := r.db.Table("users").Where("users.employee_no = ?", employeeNo).First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *ScheduleRepository) SchedulesForRange(from, to time.Time) ([]*schedule.ShiftSchedule, error) {
	var schedules []*schedule.ShiftSchedule
	err := r.db.
		Where("schedule_date >= ? AND schedule_date <= ?", from, to).
		Order("schedule_date ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *ScheduleRepository) GetByEmployeeAndDate(userID int64, date time.Time) (*schedule.ShiftSchedule, error) {
	var sched schedule.ShiftSchedule
	err := r.db.
		Where("user_id = ? AND schedule_date = ?", userID, date).
		First(&sched).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sched, nil
}

func (r *ScheduleRepository) Create(s *schedule.ShiftSchedule) error {
	return r.db.Create(s).Error
}

func (r *ScheduleRepository) Update(s *schedule.ShiftSchedule) error {
	return r.db.Save(s).Error
}

// PublishWeek flips unpublished rows inside the window and reports how many
// changed. Already-published rows are untouched, so the count is exact.
func (r *ScheduleRepository) PublishWeek(from, to time.Time) (int64, error) {
	result := r.db.Model(&schedule.ShiftSchedule{}).
		Where("schedule_date >= ? AND schedule_date <= ? AND is_published = ?", from, to, false).
		Update("is_published", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
