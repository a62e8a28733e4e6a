package http

import (
	"net/http"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/attendance"
	"github.com/atikes/hr-backend-go/internal/domain/auth"
	"github.com/atikes/hr-backend-go/internal/handler/http/middleware"
	"github.com/atikes/hr-backend-go/internal/handler/http/response"
	"github.com/atikes/hr-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)
	GetMyDaily(w http.ResponseWriter, r *http.Request)
	GetMyMonthly(w http.ResponseWriter, r *http.Request)
	GetEmployeeDaily(w http.ResponseWriter, r *http.Request)
	GetEmployeeMonthly(w http.ResponseWriter, r *http.Request)
	GetTeamRoster(w http.ResponseWriter, r *http.Request)
	GetRoster(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, now func() time.Time) AttendanceHandler {
	if now == nil {
		now = time.Now
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		now:               now,
	}
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	session, err := h.attendanceService.ClockIn(r.Context(), identity.EmployeeID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in successfully", attendance.NewSessionResponse(session))
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	sessionID := chi.URLParam(r, "id")
	// Session IDs are minted as UUIDv7; anything else cannot exist.
	if !validator.IsValidUUID(sessionID) {
		response.HandleError(w, attendance.ErrSessionNotFound)
		return
	}

	session, err := h.attendanceService.ClockOut(r.Context(), identity.EmployeeID, sessionID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out successfully", attendance.NewSessionResponse(session))
}

// Current implements AttendanceHandler.
func (h *attendanceHandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	session, err := h.attendanceService.CurrentSession(r.Context(), identity.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewCurrentSessionResponse(session))
}

// GetMyDaily implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyDaily(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	h.daily(w, r, identity.EmployeeID)
}

// GetMyMonthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyMonthly(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	h.monthly(w, r, identity.EmployeeID)
}

// GetEmployeeDaily implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetEmployeeDaily(w http.ResponseWriter, r *http.Request) {
	h.daily(w, r, chi.URLParam(r, "employeeID"))
}

// GetEmployeeMonthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetEmployeeMonthly(w http.ResponseWriter, r *http.Request) {
	h.monthly(w, r, chi.URLParam(r, "employeeID"))
}

// GetTeamRoster implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	managerID := identity.EmployeeID
	h.roster(w, r, &managerID)
}

// GetRoster implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetRoster(w http.ResponseWriter, r *http.Request) {
	h.roster(w, r, nil)
}

func (h *attendanceHandlerImpl) roster(w http.ResponseWriter, r *http.Request, managerEmployeeID *string) {
	query := attendance.DailySummaryQuery{Date: r.URL.Query().Get("date")}
	shiftDay, err := query.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	roster, err := h.attendanceService.DailyRoster(r.Context(), shiftDay, managerEmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewDailyRosterResponse(shiftDay, roster))
}

func (h *attendanceHandlerImpl) daily(w http.ResponseWriter, r *http.Request, employeeID string) {
	query := attendance.DailySummaryQuery{Date: r.URL.Query().Get("date")}
	shiftDay, err := query.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.attendanceService.DailySummary(r.Context(), employeeID, shiftDay)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewDailySummaryResponse(summary))
}

func (h *attendanceHandlerImpl) monthly(w http.ResponseWriter, r *http.Request, employeeID string) {
	query := attendance.MonthlySummaryQuery{
		Year:  r.URL.Query().Get("year"),
		Month: r.URL.Query().Get("month"),
	}
	year, month, err := query.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.attendanceService.MonthlySummary(r.Context(), employeeID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewMonthlySummaryResponse(summary))
}
