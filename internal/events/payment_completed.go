package events

import "time"

const (
	PaymentLifecycleTopic = "hr.payment.lifecycle.v1"

	PaymentCompletedEventType = "payment_completed"
	PaymentFailedEventType    = "payment_failed"
)

// PaymentLifecyclePayload is published when a payment reaches a terminal
// state. Amount is in whole shillings.
type PaymentLifecyclePayload struct {
	PaymentID       string    `json:"payment_id"`
	ReferenceNumber string    `json:"reference_number"`
	Status          string    `json:"status"`
	Amount          int64     `json:"amount"`
	MpesaReceipt    string    `json:"mpesa_receipt,omitempty"`
	PayrollID       string    `json:"payroll_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
