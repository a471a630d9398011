package payroll

type GeneratePayrollRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
}

type UpdatePayrollRequest struct {
	OvertimeHours   *float64 `json:"overtime_hours" binding:"omitempty,gte=0"`
	OvertimeRate    *int64   `json:"overtime_rate" binding:"omitempty,gte=0"`
	OtherDeductions *int64   `json:"other_deductions" binding:"omitempty,gte=0"`
}

type PayrollResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	BasicSalary     int64   `json:"basic_salary"`
	Allowances      int64   `json:"allowances"`
	OvertimeHours   float64 `json:"overtime_hours"`
	OvertimeRate    int64   `json:"overtime_rate"`
	OvertimePay     int64   `json:"overtime_pay"`
	GrossSalary     int64   `json:"gross_salary"`
	Tax             int64   `json:"tax"`
	NHIF            int64   `json:"nhif"`
	NSSF            int64   `json:"nssf"`
	OtherDeductions int64   `json:"other_deductions"`
	TotalDeductions int64   `json:"total_deductions"`
	NetSalary       int64   `json:"net_salary"`
	Status          string  `json:"status"`
	PaymentID       *string `json:"payment_id,omitempty"`
	PaidAt          *string `json:"paid_at,omitempty"`
}
