package http

import (
	"io"
	"log/slog"
	"os"

	"github.com/atikes/hr-backend-go/internal/domain/user"
	"github.com/atikes/hr-backend-go/internal/handler/http/middleware"
	"github.com/atikes/hr-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env         string
	CORSOrigins []string
	// LogOutput receives request logs. Defaults to stdout.
	LogOutput io.Writer
}

type Handlers struct {
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Payroll      PayrollHandler
	Notification NotificationHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	out := cfg.LogOutput
	if out == nil {
		out = os.Stdout
	}
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hr-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Authenticated by the short-lived token in the query string
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Post("/notifications/token", h.Notification.GetSSEToken)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)
					r.With(middleware.RequirePermission(user.PermissionAttendanceClock)).Post("/clock-in", h.Attendance.ClockIn)
					r.With(middleware.RequirePermission(user.PermissionAttendanceClock)).Post("/sessions/{id}/clock-out", h.Attendance.ClockOut)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
						r.Get("/current", h.Attendance.Current)
						r.Get("/daily", h.Attendance.GetMyDaily)
						r.Get("/monthly", h.Attendance.GetMyMonthly)
					})

					// Managers see their direct reports
					r.With(middleware.RequireManager).Get("/team", h.Attendance.GetTeamRoster)
				})

				// Admin and managers
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
					r.Get("/employees/{employeeID}/daily", h.Attendance.GetEmployeeDaily)
					r.Get("/employees/{employeeID}/monthly", h.Attendance.GetEmployeeMonthly)
				})

				// Admin only
				r.With(middleware.RequireAdmin).Get("/roster", h.Attendance.GetRoster)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)
					r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.Submit)
					r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/my", h.Leave.GetMy)
					r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/balance", h.Leave.GetMyBalance)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
					r.Get("/pending", h.Leave.GetPending)
					r.Post("/{id}/approve", h.Leave.Approve)
					r.Post("/{id}/reject", h.Leave.Reject)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveConfigure))
					r.Get("/approval-config", h.Leave.GetApprovalConfig)
					r.Put("/approval-config", h.Leave.UpdateApprovalConfig)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveViewAll))
					r.Get("/balances", h.Leave.GetBalanceSummary)
					r.Get("/employees/{code}", h.Leave.GetEmployeeHistory)
					r.Get("/employees/{code}/balance", h.Leave.GetEmployeeBalance)
				})
			})

			r.Route("/payroll/{year}/{month}", func(r chi.Router) {
				r.With(middleware.RequireEmployee, middleware.RequirePermission(user.PermissionPayrollViewOwn)).
					Get("/payslip", h.Payroll.GetMyPayslip)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollViewAll))
					r.Get("/", h.Payroll.Preview)
					r.Get("/employees/{id}", h.Payroll.GetEmployeeLine)
				})
				r.With(middleware.RequirePermission(user.PermissionPayrollApprove)).Post("/approve", h.Payroll.Approve)
			})
		})
	})
	return r
}
