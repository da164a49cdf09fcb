package handler

import (
	"time"

	"smb-finance-backend/internal/adapter/http/dto"
	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/pkg/apperror"
	"smb-finance-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// PayrollHandler handles employee and payroll run endpoints.
type PayrollHandler struct {
	payrollSvc ports.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler.
func NewPayrollHandler(payrollSvc ports.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollSvc: payrollSvc}
}

// CreateEmployee handles POST /api/v1/employees.
func (h *PayrollHandler) CreateEmployee(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	hireDate, err := time.Parse(dateLayout, req.HireDate)
	if err != nil {
		response.Error(c, apperror.Validation("invalid hire_date"))
		return
	}

	employee, err := h.payrollSvc.CreateEmployee(c.Request.Context(), ports.CreateEmployeeRequest{
		BusinessID:     businessID,
		EmployeeNumber: req.EmployeeNumber,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Position:       req.Position,
		HireDate:       hireDate,
		Salary:         req.Salary,
		HourlyRate:     req.HourlyRate,
		PayFrequency:   domain.PayFrequency(req.PayFrequency),
		Currency:       req.Currency,
		TaxWithholding: req.TaxWithholding,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toEmployeeResponse(employee))
}

// GetEmployee handles GET /api/v1/employees/:id.
func (h *PayrollHandler) GetEmployee(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	employeeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	employee, err := h.payrollSvc.GetEmployee(c.Request.Context(), businessID, employeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toEmployeeResponse(employee))
}

// ListEmployees handles GET /api/v1/employees.
func (h *PayrollHandler) ListEmployees(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	employees, err := h.payrollSvc.ListEmployees(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		items = append(items, toEmployeeResponse(&employees[i]))
	}
	response.OK(c, items)
}

// CreateRun handles POST /api/v1/payrolls.
func (h *PayrollHandler) CreateRun(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	var req dto.CreatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	employeeID, _ := uuid.Parse(req.EmployeeID)
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		response.Error(c, apperror.Validation("invalid start_date"))
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		response.Error(c, apperror.Validation("invalid end_date"))
		return
	}

	payroll, err := h.payrollSvc.CreateRun(c.Request.Context(), ports.CreatePayrollRequest{
		BusinessID:      businessID,
		EmployeeID:      employeeID,
		Period:          req.Period,
		StartDate:       startDate,
		EndDate:         endDate,
		RegularHours:    req.RegularHours,
		OvertimeHours:   req.OvertimeHours,
		RegularPay:      req.RegularPay,
		OvertimePay:     req.OvertimePay,
		Bonus:           req.Bonus,
		TaxWithholding:  req.TaxWithholding,
		SocialSecurity:  req.SocialSecurity,
		Medicare:        req.Medicare,
		OtherDeductions: req.OtherDeductions,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toPayrollResponse(payroll))
}

// GetRun handles GET /api/v1/payrolls/:id.
func (h *PayrollHandler) GetRun(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	payrollID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	payroll, err := h.payrollSvc.GetRun(c.Request.Context(), businessID, payrollID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toPayrollResponse(payroll))
}

// ListRuns handles GET /api/v1/payrolls.
func (h *PayrollHandler) ListRuns(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	payrolls, err := h.payrollSvc.ListRuns(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.PayrollResponse, 0, len(payrolls))
	for i := range payrolls {
		items = append(items, toPayrollResponse(&payrolls[i]))
	}
	response.OK(c, items)
}

// Process handles POST /api/v1/payrolls/:id/process.
func (h *PayrollHandler) Process(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	payrollID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	payroll, err := h.payrollSvc.Process(c.Request.Context(), businessID, payrollID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toPayrollResponse(payroll))
}

// MarkPaid handles POST /api/v1/payrolls/:id/pay.
func (h *PayrollHandler) MarkPaid(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}
	payrollID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.MarkPayrollPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	payroll, err := h.payrollSvc.MarkPaid(c.Request.Context(), businessID, payrollID, req.PaymentMethod)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toPayrollResponse(payroll))
}

func toEmployeeResponse(e *domain.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		ID:             e.ID.String(),
		EmployeeNumber: e.EmployeeNumber,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		Position:       e.Position,
		HireDate:       e.HireDate.Format(dateLayout),
		Status:         string(e.Status),
		Salary:         e.Salary.StringFixed(e.Currency),
		HourlyRate:     e.HourlyRate.StringFixed(e.Currency),
		PayFrequency:   string(e.PayFrequency),
		Currency:       e.Currency,
		TaxWithholding: e.TaxWithholding.String(),
		CreatedAt:      e.CreatedAt.Format(timeLayout),
	}
	if e.TerminationDate != nil {
		resp.TerminationDate = e.TerminationDate.Format(dateLayout)
	}
	return resp
}

func toPayrollResponse(p *domain.Payroll) dto.PayrollResponse {
	resp := dto.PayrollResponse{
		ID:         p.ID.String(),
		EmployeeID: p.EmployeeID.String(),
		Period:     p.Period,
		StartDate:  p.StartDate.Format(dateLayout),
		EndDate:    p.EndDate.Format(dateLayout),

		RegularHours:  p.RegularHours.String(),
		OvertimeHours: p.OvertimeHours.String(),
		RegularPay:    p.RegularPay.StringFixed(p.Currency),
		OvertimePay:   p.OvertimePay.StringFixed(p.Currency),
		Bonus:         p.Bonus.StringFixed(p.Currency),
		GrossPay:      p.GrossPay.StringFixed(p.Currency),

		TaxWithholding:  p.TaxWithholding.StringFixed(p.Currency),
		SocialSecurity:  p.SocialSecurity.StringFixed(p.Currency),
		Medicare:        p.Medicare.StringFixed(p.Currency),
		OtherDeductions: p.OtherDeductions.StringFixed(p.Currency),
		TotalDeductions: p.TotalDeductions.StringFixed(p.Currency),

		NetPay:   p.NetPay.StringFixed(p.Currency),
		Currency: p.Currency,

		Status:        string(p.Status),
		PaymentMethod: p.PaymentMethod,

		CreatedAt: p.CreatedAt.Format(timeLayout),
	}
	if p.PaymentDate != nil {
		resp.PaymentDate = p.PaymentDate.Format(timeLayout)
	}
	return resp
}
