package attendance

import (
	"context"
	"errors"
	"time"

	atterrors "github.com/masad-stock/mutech-civil-hrm/internal/attendance/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	ClockIn(ctx context.Context, userID string, notes string) (AttendanceResponse, error)
	ClockOut(ctx context.Context, userID string) (AttendanceResponse, error)
	StartBreak(ctx context.Context, userID string) (AttendanceResponse, error)
	EndBreak(ctx context.Context, userID string) (AttendanceResponse, error)
	GetMyHistory(ctx context.Context, userID string, from, to time.Time) ([]AttendanceResponse, error)
	GetByDate(ctx context.Context, date time.Time) ([]AttendanceResponse, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func statusForClockIn(t time.Time) string {
	cutoff := time.Date(t.Year(), t.Month(), t.Day(), LateCutoffHour, 0, 0, 0, t.Location())
	if t.After(cutoff) {
		return StatusLate
	}
	return StatusPresent
}

func (s *service) ClockIn(ctx context.Context, userID string, notes string) (AttendanceResponse, error) {
	now := s.now()
	date := today(now)

	if _, err := s.repo.FindByUserAndDate(ctx, userID, date); err == nil {
		return AttendanceResponse{}, atterrors.ErrAlreadyClockedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return AttendanceResponse{}, atterrors.ErrRecordNotFound
	}

	a := &Attendance{
		ID:      uuid.New(),
		UserID:  uid,
		Date:    date,
		CheckIn: &now,
		Status:  statusForClockIn(now),
		Notes:   notes,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("clock in failed", zap.String("user_id", userID), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("clocked in",
		zap.String("user_id", userID),
		zap.String("status", a.Status),
	)
	return mapToResponse(*a), nil
}

func (s *service) ClockOut(ctx context.Context, userID string) (AttendanceResponse, error) {
	now := s.now()

	a, err := s.repo.FindByUserAndDate(ctx, userID, today(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, atterrors.ErrNotClockedIn
		}
		return AttendanceResponse{}, err
	}
	if a.CheckIn == nil {
		return AttendanceResponse{}, atterrors.ErrNotClockedIn
	}
	if a.CheckOut != nil {
		return AttendanceResponse{}, atterrors.ErrAlreadyClockedOut
	}

	a.CheckOut = &now
	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.Error("clock out failed", zap.String("user_id", userID), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("clocked out",
		zap.String("user_id", userID),
		zap.Float64("hours_worked", a.HoursWorked()),
	)
	return mapToResponse(*a), nil
}

func (s *service) StartBreak(ctx context.Context, userID string) (AttendanceResponse, error) {
	now := s.now()

	a, err := s.repo.FindByUserAndDate(ctx, userID, today(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, atterrors.ErrNotClockedIn
		}
		return AttendanceResponse{}, err
	}
	if a.CheckIn == nil || a.CheckOut != nil {
		return AttendanceResponse{}, atterrors.ErrNotClockedIn
	}
	if a.BreakStart != nil && a.BreakEnd == nil {
		return AttendanceResponse{}, atterrors.ErrBreakOpen
	}

	a.BreakStart = &now
	a.BreakEnd = nil
	if err := s.repo.Update(ctx, a); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) EndBreak(ctx context.Context, userID string) (AttendanceResponse, error) {
	now := s.now()

	a, err := s.repo.FindByUserAndDate(ctx, userID, today(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, atterrors.ErrNotClockedIn
		}
		return AttendanceResponse{}, err
	}
	if a.BreakStart == nil || a.BreakEnd != nil {
		return AttendanceResponse{}, atterrors.ErrNoBreakOpen
	}

	a.BreakEnd = &now
	if err := s.repo.Update(ctx, a); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) GetMyHistory(ctx context.Context, userID string, from, to time.Time) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindByUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByDate(ctx context.Context, date time.Time) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:          a.ID.String(),
		UserID:      a.UserID.String(),
		Date:        a.Date.Format("2006-01-02"),
		Status:      a.Status,
		HoursWorked: a.HoursWorked(),
		Notes:       a.Notes,
	}
	resp.CheckIn = formatTimePtr(a.CheckIn)
	resp.CheckOut = formatTimePtr(a.CheckOut)
	resp.BreakStart = formatTimePtr(a.BreakStart)
	resp.BreakEnd = formatTimePtr(a.BreakEnd)
	return resp
}

func mapToListResponse(rows []Attendance) []AttendanceResponse {
	res := make([]AttendanceResponse, len(rows))
	for i, a := range rows {
		res[i] = mapToResponse(a)
	}
	return res
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}
