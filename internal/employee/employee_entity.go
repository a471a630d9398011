package employee

import (
	"time"

	"github.com/google/uuid"
)

// Profile carries the HR details that do not belong on the login record.
// Exactly one per user; created together with the user and removed with it.
type Profile struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`

	// Emergency contact
	EmergencyContactName         *string `gorm:"column:emergency_contact_name;type:varchar(100)"`
	EmergencyContactPhone        *string `gorm:"column:emergency_contact_phone;type:varchar(20)"`
	EmergencyContactRelationship *string `gorm:"column:emergency_contact_relationship;type:varchar(50)"`

	// Bank details for salary disbursement
	BankName          *string `gorm:"column:bank_name;type:varchar(100)"`
	BankAccountNumber *string `gorm:"column:bank_account_number;type:varchar(50)"`
	BankBranch        *string `gorm:"column:bank_branch;type:varchar(100)"`

	// Leave balances in days. Mutated only by leave approval.
	AnnualLeaveBalance int `gorm:"column:annual_leave_balance;not null;default:21"`
	SickLeaveBalance   int `gorm:"column:sick_leave_balance;not null;default:10"`

	// Performance
	PerformanceRating *string    `gorm:"column:performance_rating;type:varchar(20)"`
	LastReviewDate    *time.Time `gorm:"column:last_review_date;type:date"`
	NextReviewDate    *time.Time `gorm:"column:next_review_date;type:date"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Profile) TableName() string {
	return "employee_profiles"
}
