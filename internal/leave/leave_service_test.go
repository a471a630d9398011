package leave

import (
	"context"
	"testing"
	"time"

	leaveerrors "github.com/masad-stock/mutech-civil-hrm/internal/leave/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeRepo struct {
	CreateFn           func(ctx context.Context, l *LeaveRequest) error
	FindByIDFn         func(ctx context.Context, id string) (*LeaveRequest, error)
	FindByUserFn       func(ctx context.Context, userID string) ([]LeaveRequest, error)
	FindByStatusFn     func(ctx context.Context, status string) ([]LeaveRequest, error)
	UpdateFn           func(ctx context.Context, l *LeaveRequest) error
	GetBalancesFn      func(ctx context.Context, userID string) (int, int, error)
	DecrementBalanceFn func(ctx context.Context, userID string, leaveType string, days int) error
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, l *LeaveRequest) error {
	return f.CreateFn(ctx, l)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakeRepo) FindByUser(ctx context.Context, userID string) ([]LeaveRequest, error) {
	return f.FindByUserFn(ctx, userID)
}
func (f *fakeRepo) FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error) {
	return f.FindByStatusFn(ctx, status)
}
func (f *fakeRepo) Update(ctx context.Context, l *LeaveRequest) error {
	return f.UpdateFn(ctx, l)
}
func (f *fakeRepo) GetBalances(ctx context.Context, userID string) (int, int, error) {
	return f.GetBalancesFn(ctx, userID)
}
func (f *fakeRepo) DecrementBalance(ctx context.Context, userID string, leaveType string, days int) error {
	return f.DecrementBalanceFn(ctx, userID, leaveType, days)
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	return db, mock
}

func newServiceAt(t *testing.T, repo Repository, now time.Time) (*service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	svc := NewService(db, repo).(*service)
	svc.now = func() time.Time { return now }
	return svc, mock
}

var today = time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysBetween(start, start))
	assert.Equal(t, 3, DaysBetween(start, start.AddDate(0, 0, 2)))
	assert.Equal(t, 7, DaysBetween(start, start.AddDate(0, 0, 6)))
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	baseRepo := func() *fakeRepo {
		return &fakeRepo{
			GetBalancesFn: func(ctx context.Context, userID string) (int, int, error) {
				return 21, 10, nil
			},
			CreateFn: func(ctx context.Context, l *LeaveRequest) error { return nil },
		}
	}

	t.Run("computes inclusive day count", func(t *testing.T) {
		var created *LeaveRequest
		repo := baseRepo()
		repo.CreateFn = func(ctx context.Context, l *LeaveRequest) error {
			created = l
			return nil
		}

		svc, _ := newServiceAt(t, repo, today)
		resp, err := svc.Submit(ctx, userID, SubmitLeaveRequest{
			LeaveType: TypeAnnual,
			StartDate: "2026-03-20",
			EndDate:   "2026-03-24",
			Reason:    "family visit",
		})

		assert.NoError(t, err)
		assert.Equal(t, 5, resp.Days)
		assert.Equal(t, StatusPending, created.Status)
	})

	t.Run("start date in the past rejected", func(t *testing.T) {
		svc, _ := newServiceAt(t, baseRepo(), today)
		_, err := svc.Submit(ctx, userID, SubmitLeaveRequest{
			LeaveType: TypeAnnual,
			StartDate: "2026-03-15",
			EndDate:   "2026-03-18",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrPastStartDate)
	})

	t.Run("start today is allowed", func(t *testing.T) {
		svc, _ := newServiceAt(t, baseRepo(), today)
		_, err := svc.Submit(ctx, userID, SubmitLeaveRequest{
			LeaveType: TypeSick,
			StartDate: "2026-03-16",
			EndDate:   "2026-03-16",
		})
		assert.NoError(t, err)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		svc, _ := newServiceAt(t, baseRepo(), today)
		_, err := svc.Submit(ctx, userID, SubmitLeaveRequest{
			LeaveType: TypeAnnual,
			StartDate: "2026-03-24",
			EndDate:   "2026-03-20",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("annual request over balance rejected", func(t *testing.T) {
		repo := baseRepo()
		repo.GetBalancesFn = func(ctx context.Context, userID string) (int, int, error) {
			return 3, 10, nil
		}
		svc, _ := newServiceAt(t, repo, today)
		_, err := svc.Submit(ctx, userID, SubmitLeaveRequest{
			LeaveType: TypeAnnual,
			StartDate: "2026-03-20",
			EndDate:   "2026-03-24",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
	})

	t.Run("sick leave over balance is still accepted", func(t *testing.T) {
		repo := baseRepo()
		repo.GetBalancesFn = func(ctx context.Context, userID string) (int, int, error) {
			return 21, 2, nil
		}
		svc, _ := newServiceAt(t, repo, today)
		resp, err := svc.Submit(ctx, userID, SubmitLeaveRequest{
			LeaveType: TypeSick,
			StartDate: "2026-03-20",
			EndDate:   "2026-03-26",
		})
		assert.NoError(t, err)
		assert.Equal(t, 7, resp.Days)
	})

	t.Run("unpaid leave skips balance check", func(t *testing.T) {
		repo := baseRepo()
		repo.GetBalancesFn = func(ctx context.Context, userID string) (int, int, error) {
			return 0, 0, nil
		}
		svc, _ := newServiceAt(t, repo, today)
		_, err := svc.Submit(ctx, userID, SubmitLeaveRequest{
			LeaveType: TypeUnpaid,
			StartDate: "2026-03-20",
			EndDate:   "2026-03-24",
		})
		assert.NoError(t, err)
	})

	t.Run("unknown leave type rejected", func(t *testing.T) {
		svc, _ := newServiceAt(t, baseRepo(), today)
		_, err := svc.Submit(ctx, userID, SubmitLeaveRequest{
			LeaveType: "SABBATICAL",
			StartDate: "2026-03-20",
			EndDate:   "2026-03-24",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	reviewerID := uuid.NewString()

	pendingAnnual := func() *LeaveRequest {
		return &LeaveRequest{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			LeaveType: TypeAnnual,
			Days:      5,
			Status:    StatusPending,
		}
	}

	t.Run("decrements the annual balance", func(t *testing.T) {
		l := pendingAnnual()
		var decremented int
		repo := &fakeRepo{
			FindByIDFn: func(ctx context.Context, id string) (*LeaveRequest, error) { return l, nil },
			UpdateFn:   func(ctx context.Context, l *LeaveRequest) error { return nil },
			DecrementBalanceFn: func(ctx context.Context, userID string, leaveType string, days int) error {
				assert.Equal(t, TypeAnnual, leaveType)
				decremented = days
				return nil
			},
		}

		svc, mock := newServiceAt(t, repo, today)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Approve(ctx, l.ID.String(), reviewerID, "enjoy")
		assert.NoError(t, err)
		assert.Equal(t, StatusApproved, resp.Status)
		assert.Equal(t, 5, decremented)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already reviewed is a conflict", func(t *testing.T) {
		l := pendingAnnual()
		l.Status = StatusApproved
		repo := &fakeRepo{
			FindByIDFn: func(ctx context.Context, id string) (*LeaveRequest, error) { return l, nil },
		}

		svc, mock := newServiceAt(t, repo, today)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Approve(ctx, l.ID.String(), reviewerID, "")
		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyReviewed)
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()

	t.Run("does not touch the balance", func(t *testing.T) {
		l := &LeaveRequest{ID: uuid.New(), UserID: uuid.New(), LeaveType: TypeAnnual, Days: 3, Status: StatusPending}
		repo := &fakeRepo{
			FindByIDFn: func(ctx context.Context, id string) (*LeaveRequest, error) { return l, nil },
			UpdateFn:   func(ctx context.Context, l *LeaveRequest) error { return nil },
			DecrementBalanceFn: func(ctx context.Context, userID string, leaveType string, days int) error {
				t.Fatal("balance must not change on rejection")
				return nil
			},
		}

		svc, _ := newServiceAt(t, repo, today)
		resp, err := svc.Reject(ctx, l.ID.String(), uuid.NewString(), "short staffed that week")
		assert.NoError(t, err)
		assert.Equal(t, StatusRejected, resp.Status)
		assert.Equal(t, "short staffed that week", resp.ReviewNote)
	})
}
