package payment

type CreatePaymentRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required,max=15"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Method      string `json:"method" binding:"omitempty,oneof=MPESA BANK CASH"`
	Description string `json:"description" binding:"omitempty,max=500"`
	PayrollID   string `json:"payroll_id" binding:"omitempty,uuid"`
}

type DisbursePaymentRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required,max=15"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Remarks     string `json:"remarks" binding:"omitempty,max=100"`
	PayrollID   string `json:"payroll_id" binding:"omitempty,uuid"`
}

type PaymentResponse struct {
	ID                string  `json:"id"`
	ReferenceNumber   string  `json:"reference_number"`
	UserID            string  `json:"user_id"`
	PhoneNumber       string  `json:"phone_number"`
	Amount            int64   `json:"amount"`
	Description       string  `json:"description,omitempty"`
	Method            string  `json:"method"`
	Status            string  `json:"status"`
	CheckoutRequestID string  `json:"checkout_request_id,omitempty"`
	ConversationID    string  `json:"conversation_id,omitempty"`
	MpesaReceipt      string  `json:"mpesa_receipt,omitempty"`
	ResultDesc        string  `json:"result_desc,omitempty"`
	PayrollID         *string `json:"payroll_id,omitempty"`
	CompletedAt       *string `json:"completed_at,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

type PaymentStatusResponse struct {
	Payment       PaymentResponse `json:"payment"`
	GatewayResult string          `json:"gateway_result,omitempty"`
	GatewayDesc   string          `json:"gateway_desc,omitempty"`
}
