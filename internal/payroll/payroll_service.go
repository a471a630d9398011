package payroll

import (
	"context"
	"errors"
	"time"

	payrollerrors "github.com/masad-stock/mutech-civil-hrm/internal/payroll/errors"
	"github.com/masad-stock/mutech-civil-hrm/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Generate(ctx context.Context, req GeneratePayrollRequest) ([]PayrollResponse, error)
	GetByPeriod(ctx context.Context, month, year int) ([]PayrollResponse, error)
	GetMyPayslips(ctx context.Context, userID string) ([]PayrollResponse, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	Update(ctx context.Context, id string, req UpdatePayrollRequest) (PayrollResponse, error)
	MarkPaid(ctx context.Context, payrollID string, paymentID string) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	userRepo user.Repository
	logger   *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, userRepo user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{db: db, repo: repo, userRepo: userRepo, logger: l}
}

// Generate creates a DRAFT payroll row for every active salaried employee.
// The whole period is generated at once; generating twice for the same
// month/year is a conflict.
func (s *service) Generate(ctx context.Context, req GeneratePayrollRequest) ([]PayrollResponse, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, payrollerrors.ErrInvalidPeriod
	}

	count, err := s.repo.CountByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, payrollerrors.ErrPeriodExists
	}

	users, err := s.userRepo.FindActiveSalaried(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, payrollerrors.ErrNoEligibleUsers
	}

	created := make([]Payroll, 0, len(users))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		for _, u := range users {
			p := Payroll{
				ID:           uuid.New(),
				UserID:       u.ID,
				Month:        req.Month,
				Year:         req.Year,
				BasicSalary:  u.BasicSalary,
				Allowances:   u.Allowances,
				OvertimeRate: u.HourlyRate,
				Status:       StatusDraft,
			}
			p.CalculateTotals()
			if err := qtx.Create(ctx, &p); err != nil {
				return err
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("generate payroll failed",
			zap.Int("month", req.Month),
			zap.Int("year", req.Year),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("payroll generated",
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Int("records", len(created)),
	)
	return mapToListResponse(created), nil
}

func (s *service) GetByPeriod(ctx context.Context, month, year int) ([]PayrollResponse, error) {
	rows, err := s.repo.FindByPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetMyPayslips(ctx context.Context, userID string) ([]PayrollResponse, error) {
	rows, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdatePayrollRequest) (PayrollResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}
	if p.Status == StatusPaid {
		return PayrollResponse{}, payrollerrors.ErrPayrollAlreadyPaid
	}

	if req.OvertimeHours != nil {
		p.OvertimeHours = *req.OvertimeHours
	}
	if req.OvertimeRate != nil {
		p.OvertimeRate = *req.OvertimeRate
	}
	if req.OtherDeductions != nil {
		p.OtherDeductions = *req.OtherDeductions
	}
	p.CalculateTotals()

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("update payroll failed", zap.String("payroll_id", id), zap.Error(err))
		return PayrollResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) MarkPaid(ctx context.Context, payrollID string, paymentID string) error {
	p, err := s.repo.FindByID(ctx, payrollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payrollerrors.ErrPayrollNotFound
		}
		return err
	}
	if p.Status == StatusPaid {
		// Replayed payment events are harmless.
		return nil
	}

	now := time.Now()
	p.Status = StatusPaid
	p.PaidAt = &now
	if pid, err := uuid.Parse(paymentID); err == nil {
		p.PaymentID = &pid
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("mark payroll paid failed",
			zap.String("payroll_id", payrollID),
			zap.String("payment_id", paymentID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("payroll marked paid",
		zap.String("payroll_id", payrollID),
		zap.String("payment_id", paymentID),
	)
	return nil
}

func mapToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:              p.ID.String(),
		UserID:          p.UserID.String(),
		Month:           p.Month,
		Year:            p.Year,
		BasicSalary:     p.BasicSalary,
		Allowances:      p.Allowances,
		OvertimeHours:   p.OvertimeHours,
		OvertimeRate:    p.OvertimeRate,
		OvertimePay:     p.OvertimePay,
		GrossSalary:     p.GrossSalary,
		Tax:             p.Tax,
		NHIF:            p.NHIF,
		NSSF:            p.NSSF,
		OtherDeductions: p.OtherDeductions,
		TotalDeductions: p.TotalDeductions,
		NetSalary:       p.NetSalary,
		Status:          p.Status,
	}
	if p.PaymentID != nil {
		v := p.PaymentID.String()
		resp.PaymentID = &v
	}
	if p.PaidAt != nil {
		v := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	return resp
}

func mapToListResponse(rows []Payroll) []PayrollResponse {
	res := make([]PayrollResponse, len(rows))
	for i, p := range rows {
		res[i] = mapToResponse(p)
	}
	return res
}
