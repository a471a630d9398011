package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft = "DRAFT"
	StatusPaid  = "PAID"
)

// Statutory deductions, flat-rate. Amounts in whole shillings.
const (
	TaxRatePercent = 10
	NHIFDeduction  = 500
	NSSFDeduction  = 400
)

type Payroll struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_payroll_user_period,priority:1"`
	Month  int       `gorm:"column:month;not null;uniqueIndex:uq_payroll_user_period,priority:2"`
	Year   int       `gorm:"column:year;not null;uniqueIndex:uq_payroll_user_period,priority:3"`

	BasicSalary   int64   `gorm:"column:basic_salary;not null"`
	Allowances    int64   `gorm:"column:allowances;not null;default:0"`
	OvertimeHours float64 `gorm:"column:overtime_hours;not null;default:0"`
	OvertimeRate  int64   `gorm:"column:overtime_rate;not null;default:0"`
	OvertimePay   int64   `gorm:"column:overtime_pay;not null;default:0"`

	GrossSalary     int64 `gorm:"column:gross_salary;not null"`
	Tax             int64 `gorm:"column:tax;not null"`
	NHIF            int64 `gorm:"column:nhif;not null"`
	NSSF            int64 `gorm:"column:nssf;not null"`
	OtherDeductions int64 `gorm:"column:other_deductions;not null;default:0"`
	TotalDeductions int64 `gorm:"column:total_deductions;not null"`
	NetSalary       int64 `gorm:"column:net_salary;not null"`

	Status    string     `gorm:"column:status;type:varchar(10);not null;default:DRAFT"`
	PaymentID *uuid.UUID `gorm:"column:payment_id;type:uuid"`
	PaidAt    *time.Time `gorm:"column:paid_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Payroll) TableName() string {
	return "payroll_records"
}

// CalculateTotals fills in every derived column from the input components.
// Tax is a flat rate on basic salary only; NHIF and NSSF are fixed amounts.
func (p *Payroll) CalculateTotals() {
	p.OvertimePay = int64(p.OvertimeHours * float64(p.OvertimeRate))
	p.GrossSalary = p.BasicSalary + p.Allowances + p.OvertimePay
	p.Tax = p.BasicSalary * TaxRatePercent / 100
	p.NHIF = NHIFDeduction
	p.NSSF = NSSFDeduction
	p.TotalDeductions = p.Tax + p.NHIF + p.NSSF + p.OtherDeductions
	p.NetSalary = p.GrossSalary - p.TotalDeductions
}
