package service

import (
	"context"
	"testing"
	"time"

	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type payrollTestDeps struct {
	svc          *PayrollServiceImpl
	employeeRepo *mocks.MockEmployeeRepository
	payrollRepo  *mocks.MockPayrollRepository
	ctrl         *gomock.Controller
}

func setupPayrollService(t *testing.T) *payrollTestDeps {
	ctrl := gomock.NewController(t)
	d := &payrollTestDeps{
		employeeRepo: mocks.NewMockEmployeeRepository(ctrl),
		payrollRepo:  mocks.NewMockPayrollRepository(ctrl),
		ctrl:         ctrl,
	}
	d.svc = NewPayrollService(d.employeeRepo, d.payrollRepo, zerolog.Nop())
	return d
}

func activeEmployee(businessID uuid.UUID) *domain.Employee {
	return &domain.Employee{
		ID:           uuid.New(),
		BusinessID:   businessID,
		FirstName:    "Dana",
		LastName:     "Kim",
		Email:        "dana@example.com",
		Currency:     "USD",
		PayFrequency: domain.PayBiweekly,
		Status:       domain.EmploymentActive,
	}
}

func TestPayrollService_CreateRun_Success(t *testing.T) {
	d := setupPayrollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()
	employee := activeEmployee(businessID)

	d.employeeRepo.EXPECT().GetByID(ctx, employee.ID).Return(employee, nil)
	d.payrollRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	run, err := d.svc.CreateRun(ctx, ports.CreatePayrollRequest{
		BusinessID:   businessID,
		EmployeeID:   employee.ID,
		Period:       "biweekly",
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC),
		RegularHours: decimal.NewFromInt(80),
		RegularPay:   mustMoney(t, "4000.00"),
		Bonus:        mustMoney(t, "100.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PayrollPending, run.Status)
	assert.Equal(t, "USD", run.Currency)
	assert.True(t, run.GrossPay.IsZero()) // derived only on process
	assert.True(t, run.NetPay.IsZero())
}

func TestPayrollService_CreateRun_NegativeInputs(t *testing.T) {
	d := setupPayrollService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.CreateRun(context.Background(), ports.CreatePayrollRequest{
		BusinessID:   uuid.New(),
		EmployeeID:   uuid.New(),
		RegularHours: decimal.NewFromInt(-1),
	})
	assertAppError(t, err, "VAL_001")

	_, err = d.svc.CreateRun(context.Background(), ports.CreatePayrollRequest{
		BusinessID: uuid.New(),
		EmployeeID: uuid.New(),
		Bonus:      mustMoney(t, "-5.00"),
	})
	assertAppError(t, err, "VAL_001")
}

func TestPayrollService_CreateRun_TerminatedEmployee(t *testing.T) {
	d := setupPayrollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()
	employee := activeEmployee(businessID)
	employee.Status = domain.EmploymentTerminated

	d.employeeRepo.EXPECT().GetByID(ctx, employee.ID).Return(employee, nil)

	_, err := d.svc.CreateRun(ctx, ports.CreatePayrollRequest{
		BusinessID: businessID,
		EmployeeID: employee.ID,
	})
	assertAppError(t, err, "VAL_001")
}

func TestPayrollService_Process_ComputesDerivedPay(t *testing.T) {
	d := setupPayrollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()
	payroll := &domain.Payroll{
		ID:              uuid.New(),
		BusinessID:      businessID,
		EmployeeID:      uuid.New(),
		RegularPay:      mustMoney(t, "4000.00"),
		OvertimePay:     mustMoney(t, "200.00"),
		Bonus:           mustMoney(t, "100.00"),
		TaxWithholding:  mustMoney(t, "430.00"),
		SocialSecurity:  mustMoney(t, "266.60"),
		Medicare:        mustMoney(t, "62.35"),
		OtherDeductions: mustMoney(t, "47.05"),
		Status:          domain.PayrollPending,
	}

	d.payrollRepo.EXPECT().GetByID(ctx, payroll.ID).Return(payroll, nil)
	d.payrollRepo.EXPECT().Update(ctx, payroll).Return(nil)

	result, err := d.svc.Process(ctx, businessID, payroll.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PayrollProcessed, result.Status)
	assert.True(t, result.GrossPay.Equal(mustMoney(t, "4300.00")))
	assert.True(t, result.TotalDeductions.Equal(mustMoney(t, "806.00")))
	assert.True(t, result.NetPay.Equal(mustMoney(t, "3494.00")))
}

func TestPayrollService_Process_PaidRunIsImmutable(t *testing.T) {
	d := setupPayrollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()
	payroll := &domain.Payroll{
		ID:         uuid.New(),
		BusinessID: businessID,
		Status:     domain.PayrollPaid,
	}

	d.payrollRepo.EXPECT().GetByID(ctx, payroll.ID).Return(payroll, nil)

	_, err := d.svc.Process(ctx, businessID, payroll.ID)
	assertAppError(t, err, "TRN_001")
}

func TestPayrollService_MarkPaid_FromPending(t *testing.T) {
	d := setupPayrollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()
	payroll := &domain.Payroll{
		ID:         uuid.New(),
		BusinessID: businessID,
		Status:     domain.PayrollPending,
	}

	d.payrollRepo.EXPECT().GetByID(ctx, payroll.ID).Return(payroll, nil)
	d.payrollRepo.EXPECT().Update(ctx, payroll).Return(nil)

	result, err := d.svc.MarkPaid(ctx, businessID, payroll.ID, "bank_transfer")
	require.NoError(t, err)
	assert.Equal(t, domain.PayrollPaid, result.Status)
	assert.Equal(t, "bank_transfer", result.PaymentMethod)
	require.NotNil(t, result.PaymentDate)
	// Paying a pending run records nothing derived.
	assert.True(t, result.NetPay.IsZero())
}

func TestPayrollService_MarkPaid_Twice(t *testing.T) {
	d := setupPayrollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()
	payroll := &domain.Payroll{
		ID:         uuid.New(),
		BusinessID: businessID,
		Status:     domain.PayrollPaid,
	}

	d.payrollRepo.EXPECT().GetByID(ctx, payroll.ID).Return(payroll, nil)

	_, err := d.svc.MarkPaid(ctx, businessID, payroll.ID, "check")
	assertAppError(t, err, "TRN_001")
}

func TestPayrollService_GetRun_OtherTenant(t *testing.T) {
	d := setupPayrollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	payroll := &domain.Payroll{
		ID:         uuid.New(),
		BusinessID: uuid.New(),
		Status:     domain.PayrollPending,
	}

	d.payrollRepo.EXPECT().GetByID(ctx, payroll.ID).Return(payroll, nil)

	_, err := d.svc.GetRun(ctx, uuid.New(), payroll.ID)
	assertAppError(t, err, "LED_005")
}

func TestPayrollService_CreateEmployee(t *testing.T) {
	d := setupPayrollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()

	d.employeeRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	employee, err := d.svc.CreateEmployee(ctx, ports.CreateEmployeeRequest{
		BusinessID:   businessID,
		FirstName:    "Dana",
		LastName:     "Kim",
		Email:        "dana@example.com",
		Salary:       mustMoney(t, "104000.00"),
		PayFrequency: domain.PayBiweekly,
		Currency:     "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EmploymentActive, employee.Status)
	assert.Equal(t, "Dana Kim", employee.FullName())
}
