package attendance

import (
	"context"
	"testing"
	"time"

	atterrors "github.com/masad-stock/mutech-civil-hrm/internal/attendance/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	CreateFn            func(ctx context.Context, a *Attendance) error
	UpdateFn            func(ctx context.Context, a *Attendance) error
	FindByUserAndDateFn func(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	FindByUserFn        func(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)
	FindByDateFn        func(ctx context.Context, date time.Time) ([]Attendance, error)
}

func (f *fakeRepo) Create(ctx context.Context, a *Attendance) error { return f.CreateFn(ctx, a) }
func (f *fakeRepo) Update(ctx context.Context, a *Attendance) error { return f.UpdateFn(ctx, a) }
func (f *fakeRepo) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
	return f.FindByUserAndDateFn(ctx, userID, date)
}
func (f *fakeRepo) FindByUser(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error) {
	return f.FindByUserFn(ctx, userID, from, to)
}
func (f *fakeRepo) FindByDate(ctx context.Context, date time.Time) ([]Attendance, error) {
	return f.FindByDateFn(ctx, date)
}

func newServiceAt(repo Repository, now time.Time) *service {
	svc := NewService(repo).(*service)
	svc.now = func() time.Time { return now }
	return svc
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 16, hour, min, 0, 0, time.UTC)
}

func TestHoursWorked(t *testing.T) {
	checkIn := at(8, 0)
	checkOut := at(17, 0)
	breakStart := at(12, 0)
	breakEnd := at(13, 0)

	t.Run("full day minus lunch break", func(t *testing.T) {
		a := Attendance{CheckIn: &checkIn, CheckOut: &checkOut, BreakStart: &breakStart, BreakEnd: &breakEnd}
		assert.Equal(t, 8.0, a.HoursWorked())
	})

	t.Run("no break recorded", func(t *testing.T) {
		a := Attendance{CheckIn: &checkIn, CheckOut: &checkOut}
		assert.Equal(t, 9.0, a.HoursWorked())
	})

	t.Run("open day is zero", func(t *testing.T) {
		a := Attendance{CheckIn: &checkIn}
		assert.Equal(t, 0.0, a.HoursWorked())
	})

	t.Run("never negative", func(t *testing.T) {
		early := at(9, 0)
		earlier := at(8, 0)
		a := Attendance{CheckIn: &early, CheckOut: &earlier}
		assert.Equal(t, 0.0, a.HoursWorked())
	})
}

func TestClockIn(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	notFoundRepo := func() *fakeRepo {
		return &fakeRepo{
			FindByUserAndDateFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
				return nil, gorm.ErrRecordNotFound
			},
			CreateFn: func(ctx context.Context, a *Attendance) error { return nil },
		}
	}

	t.Run("on time before cutoff", func(t *testing.T) {
		svc := newServiceAt(notFoundRepo(), at(7, 45))
		resp, err := svc.ClockIn(ctx, userID, "")
		assert.NoError(t, err)
		assert.Equal(t, StatusPresent, resp.Status)
	})

	t.Run("exactly at cutoff is on time", func(t *testing.T) {
		svc := newServiceAt(notFoundRepo(), at(8, 0))
		resp, err := svc.ClockIn(ctx, userID, "")
		assert.NoError(t, err)
		assert.Equal(t, StatusPresent, resp.Status)
	})

	t.Run("after cutoff is late", func(t *testing.T) {
		svc := newServiceAt(notFoundRepo(), at(8, 1))
		resp, err := svc.ClockIn(ctx, userID, "traffic on Mombasa road")
		assert.NoError(t, err)
		assert.Equal(t, StatusLate, resp.Status)
	})

	t.Run("second clock-in same day rejected", func(t *testing.T) {
		repo := &fakeRepo{
			FindByUserAndDateFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
				return &Attendance{ID: uuid.New()}, nil
			},
		}
		svc := newServiceAt(repo, at(9, 0))
		_, err := svc.ClockIn(ctx, userID, "")
		assert.ErrorIs(t, err, atterrors.ErrAlreadyClockedIn)
	})
}

func TestClockOut(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("closes the open day", func(t *testing.T) {
		checkIn := at(8, 0)
		var updated *Attendance
		repo := &fakeRepo{
			FindByUserAndDateFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
				return &Attendance{ID: uuid.New(), CheckIn: &checkIn, Status: StatusPresent}, nil
			},
			UpdateFn: func(ctx context.Context, a *Attendance) error {
				updated = a
				return nil
			},
		}

		svc := newServiceAt(repo, at(17, 0))
		resp, err := svc.ClockOut(ctx, userID)
		assert.NoError(t, err)
		assert.NotNil(t, updated.CheckOut)
		assert.Equal(t, 9.0, resp.HoursWorked)
	})

	t.Run("without clock-in rejected", func(t *testing.T) {
		repo := &fakeRepo{
			FindByUserAndDateFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := newServiceAt(repo, at(17, 0))
		_, err := svc.ClockOut(ctx, userID)
		assert.ErrorIs(t, err, atterrors.ErrNotClockedIn)
	})

	t.Run("double clock-out rejected", func(t *testing.T) {
		checkIn := at(8, 0)
		checkOut := at(16, 0)
		repo := &fakeRepo{
			FindByUserAndDateFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
				return &Attendance{CheckIn: &checkIn, CheckOut: &checkOut}, nil
			},
		}
		svc := newServiceAt(repo, at(17, 0))
		_, err := svc.ClockOut(ctx, userID)
		assert.ErrorIs(t, err, atterrors.ErrAlreadyClockedOut)
	})
}

func TestBreaks(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()
	checkIn := at(8, 0)

	t.Run("start and end", func(t *testing.T) {
		day := &Attendance{CheckIn: &checkIn}
		repo := &fakeRepo{
			FindByUserAndDateFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
				return day, nil
			},
			UpdateFn: func(ctx context.Context, a *Attendance) error { return nil },
		}

		svc := newServiceAt(repo, at(12, 0))
		_, err := svc.StartBreak(ctx, userID)
		assert.NoError(t, err)
		assert.NotNil(t, day.BreakStart)

		svc = newServiceAt(repo, at(13, 0))
		_, err = svc.EndBreak(ctx, userID)
		assert.NoError(t, err)
		assert.NotNil(t, day.BreakEnd)
	})

	t.Run("second start while open rejected", func(t *testing.T) {
		breakStart := at(12, 0)
		repo := &fakeRepo{
			FindByUserAndDateFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
				return &Attendance{CheckIn: &checkIn, BreakStart: &breakStart}, nil
			},
		}
		svc := newServiceAt(repo, at(12, 30))
		_, err := svc.StartBreak(ctx, userID)
		assert.ErrorIs(t, err, atterrors.ErrBreakOpen)
	})

	t.Run("end without start rejected", func(t *testing.T) {
		repo := &fakeRepo{
			FindByUserAndDateFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
				return &Attendance{CheckIn: &checkIn}, nil
			},
		}
		svc := newServiceAt(repo, at(13, 0))
		_, err := svc.EndBreak(ctx, userID)
		assert.ErrorIs(t, err, atterrors.ErrNoBreakOpen)
	})
}
