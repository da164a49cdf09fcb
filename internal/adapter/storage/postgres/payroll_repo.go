package postgres

import (
	"context"
	"errors"
	"fmt"

	"smb-finance-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EmployeeRepo implements ports.EmployeeRepository.
type EmployeeRepo struct {
	pool Pool
}

// NewEmployeeRepo creates a new EmployeeRepo.
func NewEmployeeRepo(pool Pool) *EmployeeRepo {
	return &EmployeeRepo{pool: pool}
}

const employeeColumns = `id, business_id, employee_number, first_name, last_name, email, position,
		hire_date, termination_date, salary, hourly_rate, pay_frequency, currency, tax_withholding,
		status, created_at, updated_at`

// Create inserts a new employee.
func (r *EmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	query := `INSERT INTO employees (id, business_id, employee_number, first_name, last_name, email, position,
		hire_date, termination_date, salary, hourly_rate, pay_frequency, currency, tax_withholding,
		status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.BusinessID, e.EmployeeNumber, e.FirstName, e.LastName, e.Email, e.Position,
		e.HireDate, e.TerminationDate, e.Salary, e.HourlyRate, e.PayFrequency, e.Currency,
		e.TaxWithholding, e.Status, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// GetByID fetches an employee by UUID.
func (r *EmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	return scanEmployee(r.pool.QueryRow(ctx, query, id))
}

// ListByBusiness fetches every employee of a business.
func (r *EmployeeRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE business_id = $1 ORDER BY last_name, first_name`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := scanEmployeeFields(rows, &e); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employee rows: %w", err)
	}
	return employees, nil
}

// Update persists an employee's mutable fields.
func (r *EmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	query := `UPDATE employees SET first_name = $1, last_name = $2, email = $3, position = $4,
		termination_date = $5, salary = $6, hourly_rate = $7, pay_frequency = $8,
		tax_withholding = $9, status = $10, updated_at = $11 WHERE id = $12`

	tag, err := r.pool.Exec(ctx, query,
		e.FirstName, e.LastName, e.Email, e.Position, e.TerminationDate,
		e.Salary, e.HourlyRate, e.PayFrequency, e.TaxWithholding, e.Status,
		e.UpdatedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee not found: %s", e.ID)
	}
	return nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	e := &domain.Employee{}
	err := row.Scan(
		&e.ID, &e.BusinessID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.Email, &e.Position,
		&e.HireDate, &e.TerminationDate, &e.Salary, &e.HourlyRate, &e.PayFrequency, &e.Currency,
		&e.TaxWithholding, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return e, nil
}

func scanEmployeeFields(rows pgx.Rows, e *domain.Employee) error {
	if err := rows.Scan(
		&e.ID, &e.BusinessID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.Email, &e.Position,
		&e.HireDate, &e.TerminationDate, &e.Salary, &e.HourlyRate, &e.PayFrequency, &e.Currency,
		&e.TaxWithholding, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return fmt.Errorf("scan employee row: %w", err)
	}
	return nil
}

// PayrollRepo implements ports.PayrollRepository.
type PayrollRepo struct {
	pool Pool
}

// NewPayrollRepo creates a new PayrollRepo.
func NewPayrollRepo(pool Pool) *PayrollRepo {
	return &PayrollRepo{pool: pool}
}

const payrollColumns = `id, business_id, employee_id, payroll_period, start_date, end_date,
		regular_hours, overtime_hours, regular_pay, overtime_pay, bonus, gross_pay,
		tax_withholding, social_security, medicare, other_deductions, total_deductions,
		net_pay, currency, status, payment_method, payment_date, created_at, updated_at`

// Create inserts a new payroll run.
func (r *PayrollRepo) Create(ctx context.Context, p *domain.Payroll) error {
	query := `INSERT INTO payrolls (id, business_id, employee_id, payroll_period, start_date, end_date,
		regular_hours, overtime_hours, regular_pay, overtime_pay, bonus, gross_pay,
		tax_withholding, social_security, medicare, other_deductions, total_deductions,
		net_pay, currency, status, payment_method, payment_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.BusinessID, p.EmployeeID, p.Period, p.StartDate, p.EndDate,
		p.RegularHours, p.OvertimeHours, p.RegularPay, p.OvertimePay, p.Bonus, p.GrossPay,
		p.TaxWithholding, p.SocialSecurity, p.Medicare, p.OtherDeductions, p.TotalDeductions,
		p.NetPay, p.Currency, p.Status, p.PaymentMethod, p.PaymentDate, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payroll: %w", err)
	}
	return nil
}

// GetByID fetches a payroll run by UUID.
func (r *PayrollRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payroll, error) {
	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE id = $1`

	p := &domain.Payroll{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.BusinessID, &p.EmployeeID, &p.Period, &p.StartDate, &p.EndDate,
		&p.RegularHours, &p.OvertimeHours, &p.RegularPay, &p.OvertimePay, &p.Bonus, &p.GrossPay,
		&p.TaxWithholding, &p.SocialSecurity, &p.Medicare, &p.OtherDeductions, &p.TotalDeductions,
		&p.NetPay, &p.Currency, &p.Status, &p.PaymentMethod, &p.PaymentDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payroll by id: %w", err)
	}
	return p, nil
}

// ListByBusiness fetches every payroll run of a business, newest first.
func (r *PayrollRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Payroll, error) {
	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE business_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list payrolls: %w", err)
	}
	defer rows.Close()

	var runs []domain.Payroll
	for rows.Next() {
		var p domain.Payroll
		if err := rows.Scan(
			&p.ID, &p.BusinessID, &p.EmployeeID, &p.Period, &p.StartDate, &p.EndDate,
			&p.RegularHours, &p.OvertimeHours, &p.RegularPay, &p.OvertimePay, &p.Bonus, &p.GrossPay,
			&p.TaxWithholding, &p.SocialSecurity, &p.Medicare, &p.OtherDeductions, &p.TotalDeductions,
			&p.NetPay, &p.Currency, &p.Status, &p.PaymentMethod, &p.PaymentDate, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payroll row: %w", err)
		}
		runs = append(runs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payroll rows: %w", err)
	}
	return runs, nil
}

// Update persists a payroll run's derived figures and state.
func (r *PayrollRepo) Update(ctx context.Context, p *domain.Payroll) error {
	query := `UPDATE payrolls SET gross_pay = $1, total_deductions = $2, net_pay = $3,
		status = $4, payment_method = $5, payment_date = $6, updated_at = $7 WHERE id = $8`

	tag, err := r.pool.Exec(ctx, query,
		p.GrossPay, p.TotalDeductions, p.NetPay,
		p.Status, p.PaymentMethod, p.PaymentDate, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payroll not found: %s", p.ID)
	}
	return nil
}
