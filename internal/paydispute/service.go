package paydispute

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/core/common/query"
	"github.com/bpohub/workforce/internal/core/common/stats"
	"github.com/bpohub/workforce/internal/core/events"
)

// allowed sort columns for the dispute listing
var disputeSortColumns = []string{"created_at", "priority", "status", "amount_claimed"}

// Filter extends the shared listing params with dispute-specific criteria.
type Filter struct {
	query.Params
	DisputeType string
	Priority    string
	AssignedTo  int64
}

// Repository defines the data access methods for pay disputes.
type Repository interface {
	Create(d *PayDispute) error
	GetByID(id int64) (*PayDispute, error)
	GetByRefNo(refNo string) (*PayDispute, error)
	LatestRefNo(prefix string) (string, error)
	List(f Filter) ([]*PayDispute, int64, error)
	ListRange(from, to *time.Time) ([]*PayDispute, error)
	Update(d *PayDispute) error
	Delete(id int64) error
	DistinctCampaigns() ([]string, error)
	DistinctTypes() ([]string, error)
	DistinctStatuses() ([]string, error)
	Assignees() ([]AssigneeOption, error)
	AddComment(c *Comment) error
	Comments(disputeID int64, includeInternal bool) ([]*Comment, error)
}

// Service handles pay dispute business logic
type Service struct {
	repo   Repository
	cfg    internal.AttendanceConfig
	events *events.EventBus
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, cfg internal.AttendanceConfig, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg,
		events: bus,
		logger: logger,
		now:    time.Now,
	}
}

// CreateDispute files a new ticket. The reference number is assigned here and
// the dispute always starts Open.
func (s *Service) CreateDispute(dto CreateDisputeDTO, createdBy int64) (*PayDispute, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	refNo, err := s.nextRefNo()
	if err != nil {
		return nil, err
	}

	dispute := &PayDispute{
		RefNo:         refNo,
		EmployeeID:    dto.EmployeeID,
		DisputeType:   dto.DisputeType,
		CutoffStart:   dto.CutoffStart,
		CutoffEnd:     dto.CutoffEnd,
		AmountClaimed: dto.AmountClaimed,
		Subject:       dto.Subject,
		Description:   dto.Description,
		Status:        StatusOpen,
		Priority:      dto.EffectivePriority(),
		CreatedBy:     createdBy,
	}
	if err := s.repo.Create(dispute); err != nil {
		return nil, err
	}

	s.logger.Info("pay dispute filed", "ref_no", refNo, "employee_id", dto.EmployeeID)
	return dispute, nil
}

// nextRefNo produces the next "PAY-YYYY-NNNN" reference, resetting the
// sequence each year.
func (s *Service) nextRefNo() (string, error) {
	prefix := fmt.Sprintf("PAY-%d-", s.now().Year())

	latest, err := s.repo.LatestRefNo(prefix)
	if err != nil {
		return "", err
	}

	seq := 1
	if latest != "" {
		parts := strings.Split(latest, "-")
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (s *Service) GetDispute(id int64) (*PayDispute, error) {
	dispute, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dispute == nil {
		return nil, internal.ErrDisputeNotFound
	}
	return dispute, nil
}

func (s *Service) GetDisputeByRefNo(refNo string) (*PayDispute, error) {
	dispute, err := s.repo.GetByRefNo(refNo)
	if err != nil {
		return nil, err
	}
	if dispute == nil {
		return nil, internal.ErrDisputeNotFound
	}
	return dispute, nil
}

// UpdateDispute applies a partial edit. Status changes must follow the
// workflow graph; reaching a resolved state stamps the resolution date once.
func (s *Service) UpdateDispute(id int64, dto UpdateDisputeDTO) (*PayDispute, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dispute, err := s.GetDispute(id)
	if err != nil {
		return nil, err
	}
	prevStatus := dispute.Status

	if dto.Status != nil {
		next, _ := ParseStatus(*dto.Status)
		if next != dispute.Status {
			if !CanTransition(dispute.Status, next) {
				return nil, internal.NewValidationError(
					fmt.Sprintf("cannot move dispute from %s to %s", dispute.Status, next),
					internal.ErrCodeInvalidStatus)
			}
			dispute.Status = next
			if isResolved(next) && dispute.ResolvedDate == nil {
				resolved := s.now()
				dispute.ResolvedDate = &resolved
			}
		}
	}

	if dto.DisputeType != nil {
		dispute.DisputeType = *dto.DisputeType
	}
	if dto.CutoffStart != nil {
		dispute.CutoffStart = dto.CutoffStart
	}
	if dto.CutoffEnd != nil {
		dispute.CutoffEnd = dto.CutoffEnd
	}
	if dto.AmountClaimed != nil {
		dispute.AmountClaimed = *dto.AmountClaimed
	}
	if dto.AmountApproved != nil {
		dispute.AmountApproved = dto.AmountApproved
	}
	if dto.Subject != nil {
		dispute.Subject = *dto.Subject
	}
	if dto.Description != nil {
		dispute.Description = *dto.Description
	}
	if dto.Priority != nil {
		dispute.Priority = *dto.Priority
	}
	if dto.AssignedTo != nil {
		dispute.AssignedTo = dto.AssignedTo
	}
	if dto.ResolutionNotes != nil {
		dispute.ResolutionNotes = *dto.ResolutionNotes
	}

	if err := s.repo.Update(dispute); err != nil {
		return nil, err
	}

	if s.events != nil && dispute.Status != prevStatus {
		event := events.NewDisputeStatusChangedEvent(
			dispute.ID, dispute.RefNo, string(prevStatus), string(dispute.Status), dispute.EmployeeID)
		if err := s.events.Publish(context.Background(), event); err != nil {
			s.logger.Warn("failed to publish dispute status event", "ref_no", dispute.RefNo, "error", err)
		}
	}

	return dispute, nil
}

func (s *Service) DeleteDispute(id int64) error {
	if _, err := s.GetDispute(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// ListDisputes returns one page of tickets with exact pagination metadata.
func (s *Service) ListDisputes(f Filter) (query.ListResponse, error) {
	// newest tickets first unless the caller asked otherwise
	if f.SortOrder == "" && (f.SortBy == "" || f.SortBy == "created_at") {
		f.SortOrder = query.OrderDesc
	}
	f.Normalize(disputeSortColumns, "created_at", s.cfg.DefaultPageLimit, s.cfg.MaxPageLimit)

	disputes, totalCount, err := s.repo.List(f)
	if err != nil {
		return query.ListResponse{}, err
	}
	return query.NewListResponse(disputes, f.Params, totalCount), nil
}

// Statistics aggregates disputes over an optional filing-date window. The
// approved total only counts disputes that reached a resolved state.
func (s *Service) Statistics(dateFrom, dateTo *time.Time) (*Statistics, error) {
	disputes, err := s.repo.ListRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	var claimed, approved float64
	for _, d := range disputes {
		claimed += d.AmountClaimed
		if isResolved(d.Status) && d.AmountApproved != nil {
			approved += *d.AmountApproved
		}
	}

	return &Statistics{
		TotalDisputes: len(disputes),
		StatusBreakdown: stats.CountBy(disputes, func(d *PayDispute) string {
			return string(d.Status)
		}),
		TotalClaimedAmount:  stats.Round2(claimed),
		TotalApprovedAmount: stats.Round2(approved),
	}, nil
}

// FilterOptions returns the distinct values for the dispute filter dropdowns.
func (s *Service) FilterOptions() (*FilterOptions, error) {
	campaigns, err := s.repo.DistinctCampaigns()
	if err != nil {
		return nil, err
	}
	types, err := s.repo.DistinctTypes()
	if err != nil {
		return nil, err
	}
	statuses, err := s.repo.DistinctStatuses()
	if err != nil {
		return nil, err
	}
	assignees, err := s.repo.Assignees()
	if err != nil {
		return nil, err
	}

	return &FilterOptions{
		Campaigns:    campaigns,
		DisputeTypes: types,
		Statuses:     statuses,
		Priorities:   Priorities,
		Assignees:    assignees,
	}, nil
}

// AddComment appends to a dispute's thread.
func (s *Service) AddComment(disputeID, userID int64, dto CommentDTO) (*Comment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetDispute(disputeID); err != nil {
		return nil, err
	}

	comment := &Comment{
		DisputeID:  disputeID,
		UserID:     userID,
		Comment:    dto.Comment,
		IsInternal: dto.IsInternal,
	}
	if err := s.repo.AddComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Comments returns a dispute's thread, newest first. Internal notes are
// withheld unless the caller may see them.
func (s *Service) Comments(disputeID int64, includeInternal bool) ([]*Comment, error) {
	if _, err := s.GetDispute(disputeID); err != nil {
		return nil, err
	}
	return s.repo.Comments(disputeID, includeInternal)
}

func isResolved(status DisputeStatus) bool {
	return status == StatusApproved || status == StatusRejected || status == StatusPaid
}
