package http

import (
	"net/http"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/auth"
	"github.com/atikes/hr-backend-go/internal/domain/payroll"
	"github.com/atikes/hr-backend-go/internal/handler/http/middleware"
	"github.com/atikes/hr-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Admin
	Preview(w http.ResponseWriter, r *http.Request)
	GetEmployeeLine(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)

	GetMyPayslip(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	now            func() time.Time
}

func NewPayrollHandler(payrollService payroll.PayrollService, now func() time.Time) PayrollHandler {
	if now == nil {
		now = time.Now
	}
	return &payrollHandlerImpl{
		payrollService: payrollService,
		now:            now,
	}
}

func periodFromURL(r *http.Request) (int, time.Month, error) {
	req := payroll.PeriodRequest{
		Year:  chi.URLParam(r, "year"),
		Month: chi.URLParam(r, "month"),
	}
	return req.Validate()
}

// Preview implements PayrollHandler.
func (h *payrollHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	preview, err := h.payrollService.ComputeAll(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewPayRunPreviewResponse(preview))
}

// GetEmployeeLine implements PayrollHandler.
func (h *payrollHandlerImpl) GetEmployeeLine(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	line, err := h.payrollService.ComputeMonth(r.Context(), chi.URLParam(r, "id"), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewPayrollLineResponse(line))
}

// Approve implements PayrollHandler.
func (h *payrollHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	run, err := h.payrollService.ApproveRun(r.Context(), year, month, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll approved", payroll.NewPayrollRunResponse(run))
}

// GetMyPayslip implements PayrollHandler.
func (h *payrollHandlerImpl) GetMyPayslip(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	year, month, err := periodFromURL(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slip, err := h.payrollService.Payslip(r.Context(), identity.EmployeeID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewPayslipResponse(slip))
}
