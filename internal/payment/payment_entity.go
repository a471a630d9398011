package payment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

// MPESA collections go through an STK push; bank and cash settlements are
// recorded only and wait for manual approval. B2C is the outbound payout
// direction (salary disbursement).
const (
	MethodMpesa = "MPESA"
	MethodBank  = "BANK"
	MethodCash  = "CASH"
	MethodB2C   = "B2C"
)

type Payment struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ReferenceNumber string    `gorm:"column:reference_number;type:varchar(20);not null;uniqueIndex:uq_payment_reference"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`

	PhoneNumber string `gorm:"column:phone_number;type:varchar(15);not null"`
	Amount      int64  `gorm:"column:amount;not null"`
	Description string `gorm:"column:description;type:text"`
	Method      string `gorm:"column:method;type:varchar(10);not null;default:MPESA"`

	Status string `gorm:"column:status;type:varchar(10);not null;default:PENDING"`

	CheckoutRequestID string `gorm:"column:checkout_request_id;type:varchar(100);index"`
	MerchantRequestID string `gorm:"column:merchant_request_id;type:varchar(100)"`
	ConversationID    string `gorm:"column:conversation_id;type:varchar(100)"`
	MpesaReceipt      string `gorm:"column:mpesa_receipt;type:varchar(50)"`
	ResultDesc        string `gorm:"column:result_desc;type:text"`

	PayrollID  *uuid.UUID `gorm:"column:payroll_id;type:uuid"`
	ApprovedBy *uuid.UUID `gorm:"column:approved_by;type:uuid"`

	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsTerminal reports whether no further state change is allowed. Replayed
// gateway callbacks against a terminal payment are ignored.
func (p Payment) IsTerminal() bool {
	switch p.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

func canTransition(from, to string) bool {
	if from != StatusPending {
		return false
	}
	switch to {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}
