package service

import (
	"context"
	"fmt"
	"time"

	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PayrollServiceImpl implements ports.PayrollService.
type PayrollServiceImpl struct {
	employeeRepo ports.EmployeeRepository
	payrollRepo  ports.PayrollRepository
	log          zerolog.Logger
}

// NewPayrollService creates a new PayrollServiceImpl.
func NewPayrollService(
	employeeRepo ports.EmployeeRepository,
	payrollRepo ports.PayrollRepository,
	log zerolog.Logger,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		employeeRepo: employeeRepo,
		payrollRepo:  payrollRepo,
		log:          log,
	}
}

// CreateEmployee registers an employee for payroll.
func (s *PayrollServiceImpl) CreateEmployee(ctx context.Context, req ports.CreateEmployeeRequest) (*domain.Employee, error) {
	if req.Salary.IsNegative() || req.HourlyRate.IsNegative() {
		return nil, apperror.ErrValidation("compensation cannot be negative")
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	employee := &domain.Employee{
		ID:             uuid.New(),
		BusinessID:     req.BusinessID,
		EmployeeNumber: req.EmployeeNumber,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Position:       req.Position,
		HireDate:       req.HireDate,
		Salary:         req.Salary,
		HourlyRate:     req.HourlyRate,
		PayFrequency:   req.PayFrequency,
		Currency:       currency,
		TaxWithholding: req.TaxWithholding,
		Status:         domain.EmploymentActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create employee: %w", err))
	}

	s.log.Info().
		Str("employee_id", employee.ID.String()).
		Str("business_id", req.BusinessID.String()).
		Msg("employee created")

	return employee, nil
}

// GetEmployee fetches an employee owned by the business.
func (s *PayrollServiceImpl) GetEmployee(ctx context.Context, businessID, employeeID uuid.UUID) (*domain.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get employee: %w", err))
	}
	if employee == nil || employee.BusinessID != businessID {
		return nil, apperror.ErrNotFound("employee")
	}
	return employee, nil
}

// ListEmployees returns every employee of a business.
func (s *PayrollServiceImpl) ListEmployees(ctx context.Context, businessID uuid.UUID) ([]domain.Employee, error) {
	employees, err := s.employeeRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list employees: %w", err))
	}
	return employees, nil
}

// CreateRun opens a pending payroll run holding the itemized earnings and
// deductions. Derived figures stay zero until the run is processed.
func (s *PayrollServiceImpl) CreateRun(ctx context.Context, req ports.CreatePayrollRequest) (*domain.Payroll, error) {
	if req.RegularHours.IsNegative() || req.OvertimeHours.IsNegative() {
		return nil, apperror.ErrValidation("hours cannot be negative")
	}
	for _, m := range []struct {
		name string
		v    interface{ IsNegative() bool }
	}{
		{"regular_pay", req.RegularPay},
		{"overtime_pay", req.OvertimePay},
		{"bonus", req.Bonus},
		{"tax_withholding", req.TaxWithholding},
		{"social_security", req.SocialSecurity},
		{"medicare", req.Medicare},
		{"other_deductions", req.OtherDeductions},
	} {
		if m.v.IsNegative() {
			return nil, apperror.ErrValidation(m.name + " cannot be negative")
		}
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, apperror.ErrValidation("end_date cannot precede start_date")
	}

	employee, err := s.GetEmployee(ctx, req.BusinessID, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !employee.IsActive() {
		return nil, apperror.ErrValidation("employee is not active")
	}

	now := time.Now().UTC()
	payroll := &domain.Payroll{
		ID:              uuid.New(),
		BusinessID:      req.BusinessID,
		EmployeeID:      employee.ID,
		Period:          req.Period,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		RegularHours:    req.RegularHours,
		OvertimeHours:   req.OvertimeHours,
		RegularPay:      req.RegularPay,
		OvertimePay:     req.OvertimePay,
		Bonus:           req.Bonus,
		TaxWithholding:  req.TaxWithholding,
		SocialSecurity:  req.SocialSecurity,
		Medicare:        req.Medicare,
		OtherDeductions: req.OtherDeductions,
		Currency:        employee.Currency,
		Status:          domain.PayrollPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.payrollRepo.Create(ctx, payroll); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create payroll: %w", err))
	}

	s.log.Info().
		Str("payroll_id", payroll.ID.String()).
		Str("employee_id", employee.ID.String()).
		Str("period", payroll.Period).
		Msg("payroll run created")

	return payroll, nil
}

// GetRun fetches a payroll run owned by the business.
func (s *PayrollServiceImpl) GetRun(ctx context.Context, businessID, payrollID uuid.UUID) (*domain.Payroll, error) {
	payroll, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get payroll: %w", err))
	}
	if payroll == nil || payroll.BusinessID != businessID {
		return nil, apperror.ErrNotFound("payroll")
	}
	return payroll, nil
}

// ListRuns returns every payroll run of a business.
func (s *PayrollServiceImpl) ListRuns(ctx context.Context, businessID uuid.UUID) ([]domain.Payroll, error) {
	runs, err := s.payrollRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list payrolls: %w", err))
	}
	return runs, nil
}

// Process recomputes a run's gross, deductions and net pay and moves it
// to processed. Reprocessing before payment is allowed and recomputes
// from the stored inputs; a paid run is immutable.
func (s *PayrollServiceImpl) Process(ctx context.Context, businessID, payrollID uuid.UUID) (*domain.Payroll, error) {
	payroll, err := s.GetRun(ctx, businessID, payrollID)
	if err != nil {
		return nil, err
	}
	if err := payroll.Process(); err != nil {
		return nil, apperror.ErrInvalidTransition(err.Error())
	}
	if err := s.payrollRepo.Update(ctx, payroll); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update payroll: %w", err))
	}

	s.log.Info().
		Str("payroll_id", payroll.ID.String()).
		Str("net_pay", payroll.NetPay.String()).
		Msg("payroll processed")

	return payroll, nil
}

// MarkPaid settles a run. Allowed from pending or processed; paying a
// pending run computes nothing, it just records the settlement.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, businessID, payrollID uuid.UUID, method string) (*domain.Payroll, error) {
	payroll, err := s.GetRun(ctx, businessID, payrollID)
	if err != nil {
		return nil, err
	}
	if err := payroll.MarkPaid(method); err != nil {
		return nil, apperror.ErrInvalidTransition(err.Error())
	}
	if err := s.payrollRepo.Update(ctx, payroll); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update payroll: %w", err))
	}

	s.log.Info().
		Str("payroll_id", payroll.ID.String()).
		Str("payment_method", payroll.PaymentMethod).
		Msg("payroll paid")

	return payroll, nil
}
