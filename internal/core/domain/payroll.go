package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"smb-finance-backend/pkg/money"
)

// EmploymentStatus is the lifecycle state of an employee.
type EmploymentStatus string

const (
	EmploymentActive     EmploymentStatus = "active"
	EmploymentOnLeave    EmploymentStatus = "on_leave"
	EmploymentTerminated EmploymentStatus = "terminated"
)

// PayFrequency is how often an employee is paid.
type PayFrequency string

const (
	PayWeekly   PayFrequency = "weekly"
	PayBiweekly PayFrequency = "biweekly"
	PayMonthly  PayFrequency = "monthly"
)

// Employee holds compensation and employment data for payroll runs.
// Compensation is either a salary or an hourly rate.
type Employee struct {
	ID              uuid.UUID        `json:"id"`
	BusinessID      uuid.UUID        `json:"business_id"`
	EmployeeNumber  string           `json:"employee_number"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	Email           string           `json:"email,omitempty"`
	Position        string           `json:"position,omitempty"`
	HireDate        time.Time        `json:"hire_date"`
	TerminationDate *time.Time       `json:"termination_date,omitempty"`
	Status          EmploymentStatus `json:"employment_status"`
	Salary          money.Money      `json:"salary"`
	HourlyRate      money.Money      `json:"hourly_rate"`
	PayFrequency    PayFrequency     `json:"pay_frequency"`
	Currency        string           `json:"currency"`
	TaxWithholding  decimal.Decimal  `json:"tax_withholding"` // fraction, e.g. 0.12
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// FullName returns the employee's display name.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// IsActive reports whether the employee is currently employed.
func (e *Employee) IsActive() bool {
	return e.Status == EmploymentActive && e.TerminationDate == nil
}

// PayrollStatus is the one-directional state of a payroll run:
// pending -> processed -> paid. There is no reverse transition.
type PayrollStatus string

const (
	PayrollPending   PayrollStatus = "pending"
	PayrollProcessed PayrollStatus = "processed"
	PayrollPaid      PayrollStatus = "paid"
)

// Payroll is one computed pay cycle for one employee.
type Payroll struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"business_id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	Period     string    `json:"payroll_period"` // weekly, biweekly, monthly
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`

	// Earnings
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	RegularPay    money.Money     `json:"regular_pay"`
	OvertimePay   money.Money     `json:"overtime_pay"`
	Bonus         money.Money     `json:"bonus"`
	GrossPay      money.Money     `json:"gross_pay"`

	// Deductions
	TaxWithholding  money.Money `json:"tax_withholding"`
	SocialSecurity  money.Money `json:"social_security"`
	Medicare        money.Money `json:"medicare"`
	OtherDeductions money.Money `json:"other_deductions"`
	TotalDeductions money.Money `json:"total_deductions"`

	NetPay   money.Money `json:"net_pay"`
	Currency string      `json:"currency"`

	Status        PayrollStatus `json:"status"`
	PaymentMethod string        `json:"payment_method,omitempty"` // bank_transfer, check, cash
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Process recomputes the run's derived pay figures and moves it to
// processed. Gross, deductions and net are always recomputed from the
// itemized inputs, never trusted from storage. Net pay may be negative;
// clamping is the caller's concern. Reprocessing a paid run is forbidden.
func (p *Payroll) Process() error {
	if p.Status == PayrollPaid {
		return fmt.Errorf("payroll %s is already paid", p.ID)
	}

	p.GrossPay = p.RegularPay.Add(p.OvertimePay).Add(p.Bonus)
	p.TotalDeductions = p.TaxWithholding.
		Add(p.SocialSecurity).
		Add(p.Medicare).
		Add(p.OtherDeductions)
	p.NetPay = p.GrossPay.Sub(p.TotalDeductions)
	p.Status = PayrollProcessed
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkPaid records the payment and moves the run to its terminal state.
// Allowed from pending or processed; once paid, no further mutation of
// earnings or deductions is possible.
func (p *Payroll) MarkPaid(method string) error {
	if p.Status == PayrollPaid {
		return fmt.Errorf("payroll %s is already paid", p.ID)
	}

	now := time.Now().UTC()
	p.Status = PayrollPaid
	p.PaymentDate = &now
	if method != "" {
		p.PaymentMethod = method
	}
	p.UpdatedAt = now
	return nil
}
