package leave

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error

	// GetBalances reads the requesting user's leave balances off the
	// employee profile.
	GetBalances(ctx context.Context, userID string) (annual int, sick int, err error)

	// DecrementBalance subtracts days from one of the profile's balance
	// columns. Balances are allowed to go negative; HR reconciles them
	// out of band.
	DecrementBalance(ctx context.Context, userID string, leaveType string, days int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByUser(ctx context.Context, userID string) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) GetBalances(ctx context.Context, userID string) (int, int, error) {
	var row struct {
		AnnualLeaveBalance int
		SickLeaveBalance   int
	}
	err := r.db.WithContext(ctx).
		Table("employee_profiles").
		Select("annual_leave_balance", "sick_leave_balance").
		Where("user_id = ?", userID).
		Take(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.AnnualLeaveBalance, row.SickLeaveBalance, nil
}

func (r *repository) DecrementBalance(ctx context.Context, userID string, leaveType string, days int) error {
	var column string
	switch leaveType {
	case TypeAnnual:
		column = "annual_leave_balance"
	case TypeSick:
		column = "sick_leave_balance"
	default:
		// Unpaid and statutory leave do not draw from a balance.
		return nil
	}

	return r.db.WithContext(ctx).
		Table("employee_profiles").
		Where("user_id = ?", userID).
		Update(column, gorm.Expr(column+" - ?", days)).Error
}
