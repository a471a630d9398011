package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusAbsent  = "ABSENT"
	StatusHalfDay = "HALF_DAY"
)

// Clock-ins after this time of day are marked LATE; exactly on the hour is
// still on time.
const LateCutoffHour = 8

type Attendance struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_attendance_user_date,priority:1"`
	Date   time.Time `gorm:"column:date;type:date;not null;uniqueIndex:uq_attendance_user_date,priority:2"`

	CheckIn    *time.Time `gorm:"column:check_in"`
	CheckOut   *time.Time `gorm:"column:check_out"`
	BreakStart *time.Time `gorm:"column:break_start"`
	BreakEnd   *time.Time `gorm:"column:break_end"`

	Status string `gorm:"column:status;type:varchar(10);not null;default:ABSENT"`
	Notes  string `gorm:"column:notes;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Attendance) TableName() string {
	return "attendance_records"
}

// HoursWorked is check-in to check-out minus the recorded break, in hours.
// Returns 0 when the day is still open or the numbers do not add up.
func (a Attendance) HoursWorked() float64 {
	if a.CheckIn == nil || a.CheckOut == nil {
		return 0
	}

	worked := a.CheckOut.Sub(*a.CheckIn)
	if a.BreakStart != nil && a.BreakEnd != nil {
		worked -= a.BreakEnd.Sub(*a.BreakStart)
	}

	if worked < 0 {
		return 0
	}
	return worked.Hours()
}
