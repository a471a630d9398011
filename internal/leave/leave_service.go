package leave

import (
	"context"
	"errors"
	"time"

	leaveerrors "github.com/masad-stock/mutech-civil-hrm/internal/leave/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validLeaveTypes = map[string]bool{
	TypeAnnual:    true,
	TypeSick:      true,
	TypeMaternity: true,
	TypePaternity: true,
	TypeUnpaid:    true,
}

type Service interface {
	Submit(ctx context.Context, userID string, req SubmitLeaveRequest) (LeaveResponse, error)
	GetMyRequests(ctx context.Context, userID string) ([]LeaveResponse, error)
	GetPending(ctx context.Context) ([]LeaveResponse, error)
	Approve(ctx context.Context, id string, reviewerID string, note string) (LeaveResponse, error)
	Reject(ctx context.Context, id string, reviewerID string, note string) (LeaveResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, now: time.Now, logger: l}
}

func (s *service) Submit(ctx context.Context, userID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	if !validLeaveTypes[req.LeaveType] {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	now := s.now()
	todayDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(todayDate) {
		return LeaveResponse{}, leaveerrors.ErrPastStartDate
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	days := DaysBetween(start, end)

	// Only annual leave is gated on balance at submission; sick leave is
	// always accepted and reconciled at approval.
	annual, _, err := s.repo.GetBalances(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return LeaveResponse{}, err
	}
	if req.LeaveType == TypeAnnual && days > annual {
		return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}

	l := &LeaveRequest{
		ID:        uuid.New(),
		UserID:    uid,
		LeaveType: req.LeaveType,
		StartDate: start,
		EndDate:   end,
		Days:      days,
		Reason:    req.Reason,
		Status:    StatusPending,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("submit leave failed", zap.String("user_id", userID), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave submitted",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", userID),
		zap.String("leave_type", l.LeaveType),
		zap.Int("days", days),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetMyRequests(ctx context.Context, userID string) ([]LeaveResponse, error) {
	rows, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetPending(ctx context.Context) ([]LeaveResponse, error) {
	rows, err := s.repo.FindByStatus(ctx, StatusPending)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) Approve(ctx context.Context, id string, reviewerID string, note string) (LeaveResponse, error) {
	var approved *LeaveRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrLeaveNotFound
			}
			return err
		}
		if l.Status != StatusPending {
			return leaveerrors.ErrAlreadyReviewed
		}

		now := s.now()
		reviewer, err := uuid.Parse(reviewerID)
		if err == nil {
			l.ReviewedBy = &reviewer
		}
		l.Status = StatusApproved
		l.ReviewedAt = &now
		l.ReviewNote = note

		if err := qtx.Update(ctx, l); err != nil {
			return err
		}
		if err := qtx.DecrementBalance(ctx, l.UserID.String(), l.LeaveType, l.Days); err != nil {
			return err
		}

		approved = l
		return nil
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave approved",
		zap.String("leave_id", id),
		zap.String("reviewer_id", reviewerID),
		zap.Int("days", approved.Days),
	)
	return mapToResponse(*approved), nil
}

func (s *service) Reject(ctx context.Context, id string, reviewerID string, note string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyReviewed
	}

	now := s.now()
	if reviewer, err := uuid.Parse(reviewerID); err == nil {
		l.ReviewedBy = &reviewer
	}
	l.Status = StatusRejected
	l.ReviewedAt = &now
	l.ReviewNote = note

	if err := s.repo.Update(ctx, l); err != nil {
		s.logger.Error("reject leave failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave rejected",
		zap.String("leave_id", id),
		zap.String("reviewer_id", reviewerID),
	)
	return mapToResponse(*l), nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		UserID:     l.UserID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		Days:       l.Days,
		Reason:     l.Reason,
		Status:     l.Status,
		ReviewNote: l.ReviewNote,
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(rows []LeaveRequest) []LeaveResponse {
	res := make([]LeaveResponse, len(rows))
	for i, l := range rows {
		res[i] = mapToResponse(l)
	}
	return res
}
