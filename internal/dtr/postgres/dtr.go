package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/bpohub/workforce/internal/core/common/query"
	"github.com/bpohub/workforce/internal/dtr"
	"github.com/bpohub/workforce/internal/employee"
)

// DTRRepository implements the dtr.Repository interface using GORM
type DTRRepository struct {
	db *gorm.DB
}

func NewDTRRepository(db *gorm.DB) dtr.Repository {
	return &DTRRepository{db: db}
}

func (r *DTRRepository) Create(rec *dtr.DailyTimeRecord) error {
	return r.db.Create(rec).Error
}

func (r *DTRRepository) GetByID(id int64) (*dtr.DailyTimeRecord, error) {
	var rec dtr.DailyTimeRecord
	err := r.recordQuery().Where("daily_time_records.id = ?", id).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// List returns one page of records plus the unpaginated match count.
func (r *DTRRepository) List(params query.Params) ([]*dtr.DailyTimeRecord, int64, error) {
	base := r.filtered(params)

	var totalCount int64
	if err := base.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var records []*dtr.DailyTimeRecord
	err := base.
		Order("daily_time_records." + params.OrderClause()).
		Order("users.full_name ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, totalCount, nil
}

// ListAll returns every matching record in sorted order, for exports.
func (r *DTRRepository) ListAll(params query.Params) ([]*dtr.DailyTimeRecord, error) {
	var records []*dtr.DailyTimeRecord
	err := r.filtered(params).
		Order("daily_time_records." + params.OrderClause()).
		Order("users.full_name ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *DTRRepository) ListRange(from, to *time.Time) ([]*dtr.DailyTimeRecord, error) {
	q := r.db.Model(&dtr.DailyTimeRecord{})
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}

	var records []*dtr.DailyTimeRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *DTRRepository) Update(rec *dtr.DailyTimeRecord) error {
	return r.db.Save(rec).Error
}

func (r *DTRRepository) Delete(id int64) error {
	return r.db.Delete(&dtr.DailyTimeRecord{}, id).Error
}

func (r *DTRRepository) DistinctCampaigns() ([]string, error) {
	var values []string
	err := r.db.Table("users").
		Distinct("users.campaign").
		Joins("JOIN daily_time_records ON daily_time_records.user_id = users.id").
		Where("users.campaign IS NOT NULL AND users.campaign <> ''").
		Order("users.campaign ASC").
		Pluck("users.campaign", &values).Error
	return values, err
}

func (r *DTRRepository) DistinctShifts() ([]string, error) {
	return r.distinctColumn("scheduled_shift")
}

func (r *DTRRepository) DistinctStatuses() ([]string, error) {
	return r.distinctColumn("status")
}

func (r *DTRRepository) distinctColumn(column string) ([]string, error) {
	var values []string
	err := r.db.Model(&dtr.DailyTimeRecord{}).
		Distinct(column).
		Where(column+" IS NOT NULL AND "+column+" <> ''").
		Order(column + " ASC").
		Pluck(column, &values).Error
	return values, err
}

func (r *DTRRepository) FindEmployeeByNo(employeeNo string) (*employee.Employee, error) {
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

func (r *DTRRepository) recordQuery() *gorm.DB {
	return r.db.Table("daily_time_records").
		Select("daily_time_records.*, users.full_name AS employee_name, users.employee_no AS employee_no, users.campaign AS campaign").
		Joins("LEFT JOIN users ON users.id = daily_time_records.user_id")
}

func (r *DTRRepository) filtered(params query.Params) *gorm.DB {
	q := r.recordQuery()

	if params.Search != "" {
		term := "%" + params.Search + "%"
		q = q.Where(
			"users.full_name ILIKE ? OR users.employee_no ILIKE ? OR users.email ILIKE ?",
			term, term, term,
		)
	}
	if params.Campaign != "" {
		q = q.Where("users.campaign = ?", params.Campaign)
	}
	if params.Shift != "" {
		q = q.Where("daily_time_records.scheduled_shift = ?", params.Shift)
	}
	if params.Status != "" {
		q = q.Where("daily_time_records.status = ?", params.Status)
	}
	if params.DateFrom != nil {
		q = q.Where("daily_time_records.date >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		q = q.Where("daily_time_records.date <= ?", *params.DateTo)
	}
	return q
}
