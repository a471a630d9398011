package report

import (
	"context"
	"time"

	"github.com/masad-stock/mutech-civil-hrm/internal/attendance"
	"github.com/masad-stock/mutech-civil-hrm/internal/leave"
	"github.com/masad-stock/mutech-civil-hrm/internal/payment"

	"go.uber.org/zap"
)

type PaymentStatsResponse struct {
	ByStatus map[string]int64 `json:"by_status"`
	Total    int64            `json:"total"`
}

type AttendanceSummaryResponse struct {
	Date       string  `json:"date"`
	Present    int     `json:"present"`
	Late       int     `json:"late"`
	HalfDay    int     `json:"half_day"`
	TotalHours float64 `json:"total_hours"`
}

type LeaveSummaryResponse struct {
	PendingRequests int `json:"pending_requests"`
}

type Service interface {
	PaymentStats(ctx context.Context) (PaymentStatsResponse, error)
	AttendanceSummary(ctx context.Context, date time.Time) (AttendanceSummaryResponse, error)
	LeaveSummary(ctx context.Context) (LeaveSummaryResponse, error)
}

type service struct {
	paymentRepo    payment.Repository
	attendanceRepo attendance.Repository
	leaveRepo      leave.Repository
	logger         *zap.Logger
}

func NewService(
	paymentRepo payment.Repository,
	attendanceRepo attendance.Repository,
	leaveRepo leave.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		paymentRepo:    paymentRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		logger:         l,
	}
}

func (s *service) PaymentStats(ctx context.Context) (PaymentStatsResponse, error) {
	byStatus, err := s.paymentRepo.CountByStatus(ctx)
	if err != nil {
		return PaymentStatsResponse{}, err
	}

	resp := PaymentStatsResponse{ByStatus: byStatus}
	for _, count := range byStatus {
		resp.Total += count
	}
	return resp, nil
}

func (s *service) AttendanceSummary(ctx context.Context, date time.Time) (AttendanceSummaryResponse, error) {
	rows, err := s.attendanceRepo.FindByDate(ctx, date)
	if err != nil {
		return AttendanceSummaryResponse{}, err
	}

	resp := AttendanceSummaryResponse{Date: date.Format("2006-01-02")}
	for _, a := range rows {
		switch a.Status {
		case attendance.StatusPresent:
			resp.Present++
		case attendance.StatusLate:
			resp.Late++
		case attendance.StatusHalfDay:
			resp.HalfDay++
		}
		resp.TotalHours += a.HoursWorked()
	}
	return resp, nil
}

func (s *service) LeaveSummary(ctx context.Context) (LeaveSummaryResponse, error) {
	pending, err := s.leaveRepo.FindByStatus(ctx, leave.StatusPending)
	if err != nil {
		return LeaveSummaryResponse{}, err
	}
	return LeaveSummaryResponse{PendingRequests: len(pending)}, nil
}
