package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/auth"
	"github.com/atikes/hr-backend-go/internal/domain/leave"
	"github.com/atikes/hr-backend-go/internal/handler/http/middleware"
	"github.com/atikes/hr-backend-go/internal/handler/http/response"
	"github.com/atikes/hr-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	GetMy(w http.ResponseWriter, r *http.Request)
	GetPending(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	GetMyBalance(w http.ResponseWriter, r *http.Request)

	// Admin
	GetApprovalConfig(w http.ResponseWriter, r *http.Request)
	UpdateApprovalConfig(w http.ResponseWriter, r *http.Request)
	GetEmployeeHistory(w http.ResponseWriter, r *http.Request)
	GetEmployeeBalance(w http.ResponseWriter, r *http.Request)
	GetBalanceSummary(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
	now          func() time.Time
}

func NewLeaveHandler(leaveService leave.LeaveService, now func() time.Time) LeaveHandler {
	if now == nil {
		now = time.Now
	}
	return &leaveHandlerImpl{
		leaveService: leaveService,
		now:          now,
	}
}

// Submit implements LeaveHandler.
func (h *leaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req leave.SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = identity.EmployeeID

	created, err := h.leaveService.Submit(r.Context(), req, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leave.NewLeaveRequestResponse(created))
}

// GetMy implements LeaveHandler.
func (h *leaveHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	code, err := h.leaveService.EmployeeCode(r.Context(), identity.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.history(w, r, code)
}

// GetPending implements LeaveHandler.
func (h *leaveHandlerImpl) GetPending(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	requests, err := h.leaveService.PendingFor(r.Context(), identity.UserID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveRequestResponses(requests))
}

// Approve implements LeaveHandler.
func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	leaveID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(leaveID) {
		response.HandleError(w, leave.ErrLeaveRequestNotFound)
		return
	}

	updated, err := h.leaveService.Approve(r.Context(), leaveID, identity.UserID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", leave.NewLeaveRequestResponse(updated))
}

// Reject implements LeaveHandler.
func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	leaveID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(leaveID) {
		response.HandleError(w, leave.ErrLeaveRequestNotFound)
		return
	}

	updated, err := h.leaveService.Reject(r.Context(), leaveID, identity.UserID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", leave.NewLeaveRequestResponse(updated))
}

// GetMyBalance implements LeaveHandler.
func (h *leaveHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	code, err := h.leaveService.EmployeeCode(r.Context(), identity.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.balance(w, r, code)
}

// GetApprovalConfig implements LeaveHandler.
func (h *leaveHandlerImpl) GetApprovalConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.leaveService.GetApprovalConfig(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewApprovalConfigResponse(cfg))
}

// UpdateApprovalConfig implements LeaveHandler.
func (h *leaveHandlerImpl) UpdateApprovalConfig(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateApprovalConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	cfg, err := h.leaveService.UpdateApprovalConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Approval configuration updated", leave.NewApprovalConfigResponse(cfg))
}

// GetEmployeeHistory implements LeaveHandler.
func (h *leaveHandlerImpl) GetEmployeeHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, chi.URLParam(r, "code"))
}

// GetEmployeeBalance implements LeaveHandler.
func (h *leaveHandlerImpl) GetEmployeeBalance(w http.ResponseWriter, r *http.Request) {
	h.balance(w, r, chi.URLParam(r, "code"))
}

func (h *leaveHandlerImpl) history(w http.ResponseWriter, r *http.Request, code string) {
	requests, err := h.leaveService.HistoryFor(r.Context(), code)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveRequestResponses(requests))
}

// GetBalanceSummary implements LeaveHandler.
func (h *leaveHandlerImpl) GetBalanceSummary(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.leaveService.BalanceSummary(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewBalanceSummaryResponse(year, summary))
}

// yearParam reads ?year, defaulting to the current year.
func (h *leaveHandlerImpl) yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return h.now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if !validator.IsNumeric(raw) || err != nil || year < 1970 || year > 9999 {
		return 0, validator.ValidationErrors{{
			Field:   "year",
			Message: "year must be a four digit number",
		}}
	}
	return year, nil
}

func (h *leaveHandlerImpl) balance(w http.ResponseWriter, r *http.Request, code string) {
	year, err := h.yearParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balances, err := h.leaveService.Balance(r.Context(), code, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveBalanceResponse(code, year, balances))
}
