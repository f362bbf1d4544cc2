package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/bpohub/workforce/internal/paydispute"
)

// DisputeRepository implements the paydispute.Repository interface using GORM
type DisputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) paydispute.Repository {
	return &DisputeRepository{db: db}
}

func (r *DisputeRepository) Create(d *paydispute.PayDispute) error {
	return r.db.Create(d).Error
}

func (r *DisputeRepository) GetByID(id int64) (*paydispute.PayDispute, error) {
	return r.getOne("pay_disputes.id = ?", id)
}

func (r *DisputeRepository) GetByRefNo(refNo string) (*paydispute.PayDispute, error) {
	return r.getOne("pay_disputes.ref_no = ?", refNo)
}

func (r *DisputeRepository) getOne(cond string, arg interface{}) (*paydispute.PayDispute, error) {
	var dispute paydispute.PayDispute
	err := r.disputeQuery().Where(cond, arg).First(&dispute).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dispute, nil
}

// LatestRefNo returns the most recently issued reference with the prefix,
// empty when the yearly sequence has not started.
func (r *DisputeRepository) LatestRefNo(prefix string) (string, error) {
	var refNo string
	err := r.db.Model(&paydispute.PayDispute{}).
		Where("ref_no LIKE ?", prefix+"%").
		Order("id DESC").
		Limit(1).
		Pluck("ref_no", &refNo).Error
	if err != nil {
		return "", err
	}
	return refNo, nil
}

// List returns one page of disputes plus the unpaginated match count.
func (r *DisputeRepository) List(f paydispute.Filter) ([]*paydispute.PayDispute, int64, error) {
	base := r.filtered(f)

	var totalCount int64
	if err := base.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var disputes []*paydispute.PayDispute
	err := base.
		Order("pay_disputes." + f.OrderClause()).
		Limit(f.Limit).
		Offset(f.Offset()).
		Find(&disputes).Error
	if err != nil {
		return nil, 0, err
	}
	return disputes, totalCount, nil
}

func (r *DisputeRepository) ListRange(from, to *time.Time) ([]*paydispute.PayDispute, error) {
	q := r.db.Model(&paydispute.PayDispute{})
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	var disputes []*paydispute.PayDispute
	if err := q.Find(&disputes).Error; err != nil {
		return nil, err
	}
	return disputes, nil
}

func (r *DisputeRepository) Update(d *paydispute.PayDispute) error {
	return r.db.Save(d).Error
}

func (r *DisputeRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dispute_id = ?", id).Delete(&paydispute.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&paydispute.PayDispute{}, id).Error
	})
}

func (r *DisputeRepository) DistinctCampaigns() ([]string, error) {
	var values []string
	err := r.db.Table("users").
		Distinct("users.campaign").
		Joins("JOIN pay_disputes ON pay_disputes.employee_id = users.id").
		Where("users.campaign IS NOT NULL AND users.campaign <> ''").
		Order("users.campaign ASC").
		Pluck("users.campaign", &values).Error
	return values, err
}

func (r *DisputeRepository) DistinctTypes() ([]string, error) {
	return r.distinctColumn("dispute_type")
}

func (r *DisputeRepository) DistinctStatuses() ([]string, error) {
	return r.distinctColumn("status")
}

func (r *DisputeRepository) distinctColumn(column string) ([]string, error) {
	var values []string
	err := r.db.Model(&paydispute.PayDispute{}).
		Distinct(column).
		Where(column+" IS NOT NULL AND "+column+" <> ''").
		Order(column + " ASC").
		Pluck(column, &values).Error
	return values, err
}

// Assignees returns the users who have ever held a dispute.
func (r *DisputeRepository) Assignees() ([]paydispute.AssigneeOption, error) {
	var assignees []paydispute.AssigneeOption
	err := r.db.Table("users").
		Select("DISTINCT users.id, users.full_name AS name").
		Joins("JOIN pay_disputes ON pay_disputes.assigned_to = users.id").
		Order("users.id ASC").
		Scan(&assignees).Error
	return assignees, err
}

func (r *DisputeRepository) AddComment(c *paydispute.Comment) error {
	return r.db.Create(c).Error
}

func (r *DisputeRepository) Comments(disputeID int64, includeInternal bool) ([]*paydispute.Comment, error) {
	q := r.db.Table("pay_dispute_comments").
		Select("pay_dispute_comments.*, users.full_name AS user_name").
		Joins("LEFT JOIN users ON users.id = pay_dispute_comments.user_id").
		Where("pay_dispute_comments.dispute_id = ?", disputeID)
	if !includeInternal {
		q = q.Where("pay_dispute_comments.is_internal = ?", false)
	}

	var comments []*paydispute.Comment
	err := q.Order("pay_dispute_comments.created_at DESC").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *DisputeRepository) disputeQuery() *gorm.DB {
	return r.db.Table("pay_disputes").
		Select("pay_disputes.*, " +
			"employees.full_name AS employee_name, employees.employee_no AS employee_no, employees.campaign AS campaign, " +
			"assignees.full_name AS assignee_name").
		Joins("LEFT JOIN users AS employees ON employees.id = pay_disputes.employee_id").
		Joins("LEFT JOIN users AS assignees ON assignees.id = pay_disputes.assigned_to")
}

func (r *DisputeRepository) filtered(f paydispute.Filter) *gorm.DB {
	q := r.disputeQuery()

	if f.Search != "" {
		term := "%" + f.Search + "%"
		q = q.Where(
			"employees.full_name ILIKE ? OR employees.employee_no ILIKE ? OR pay_disputes.ref_no ILIKE ? OR pay_disputes.subject ILIKE ?",
			term, term, term, term,
		)
	}
	if f.Status != "" {
		q = q.Where("pay_disputes.status = ?", f.Status)
	}
	if f.DisputeType != "" {
		q = q.Where("pay_disputes.dispute_type = ?", f.DisputeType)
	}
	if f.Priority != "" {
		q = q.Where("pay_disputes.priority = ?", f.Priority)
	}
	if f.Campaign != "" {
		q = q.Where("employees.campaign = ?", f.Campaign)
	}
	if f.AssignedTo > 0 {
		q = q.Where("pay_disputes.assigned_to = ?", f.AssignedTo)
	}
	if f.DateFrom != nil {
		q = q.Where("pay_disputes.created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("pay_disputes.created_at < ?", f.DateTo.AddDate(0, 0, 1))
	}
	return q
}
