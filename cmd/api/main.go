package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/atikes/hr-backend-go/internal/config"
	"github.com/atikes/hr-backend-go/internal/domain/attendance"
	"github.com/atikes/hr-backend-go/internal/domain/employee"
	"github.com/atikes/hr-backend-go/internal/domain/holiday"
	"github.com/atikes/hr-backend-go/internal/domain/leave"
	"github.com/atikes/hr-backend-go/internal/domain/payroll"
	appHTTP "github.com/atikes/hr-backend-go/internal/handler/http"
	"github.com/atikes/hr-backend-go/internal/pkg/cron"
	"github.com/atikes/hr-backend-go/internal/pkg/database"
	"github.com/atikes/hr-backend-go/internal/pkg/jwt"
	"github.com/atikes/hr-backend-go/internal/pkg/shift"
	"github.com/atikes/hr-backend-go/internal/pkg/sse"
	"github.com/atikes/hr-backend-go/internal/repository/memory"
	"github.com/atikes/hr-backend-go/internal/repository/postgresql"
	attendanceService "github.com/atikes/hr-backend-go/internal/service/attendance"
	leaveService "github.com/atikes/hr-backend-go/internal/service/leave"
	notificationService "github.com/atikes/hr-backend-go/internal/service/notification"
	payrollService "github.com/atikes/hr-backend-go/internal/service/payroll"
)

type repositories struct {
	tx             database.Transactor
	employees      employee.EmployeeRepository
	holidays       holiday.HolidayRepository
	sessions       attendance.SessionRepository
	leaveRequests  leave.LeaveRequestRepository
	approvalConfig leave.ApprovalConfigRepository
	compensation   payroll.CompensationRepository
	runs           payroll.PayrollRunRepository
	lines          payroll.PayrollLineRepository
	close          func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	setupLogger(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal("Error opening storage: ", err)
	}
	defer repos.close()

	calendar, err := shift.NewCalendar(cfg.Shift.StartHour, cfg.Shift.EndHour, cfg.Location())
	if err != nil {
		log.Fatal("Invalid shift configuration: ", err)
	}
	officeStart, err := attendance.ParseTimeOfDay(cfg.Attendance.OfficeStart)
	if err != nil {
		log.Fatal("Invalid OFFICE_START: ", err)
	}
	officeEnd, err := attendance.ParseTimeOfDay(cfg.Attendance.OfficeEnd)
	if err != nil {
		log.Fatal("Invalid OFFICE_END: ", err)
	}
	paidCategories, err := parseCategories(cfg.Leave.PaidCategories)
	if err != nil {
		log.Fatal("Invalid LEAVE_PAID_CATEGORIES: ", err)
	}

	hub := sse.NewHub()
	notifier := notificationService.NewHubNotifier(hub, slog.Default())

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(
		repos.tx,
		repos.sessions,
		repos.employees,
		notifier,
		attendanceService.Options{
			Calendar: calendar,
			Policy: attendance.MonthlyPolicy{
				MinPresenceSeconds: cfg.Attendance.MinPresenceSeconds,
				OfficeStart:        officeStart,
				OfficeEnd:          officeEnd,
				Location:           cfg.Location(),
			},
			EnforceShiftStart: cfg.Attendance.EnforceShiftStart,
		},
	)
	leaveSvc := leaveService.NewLeaveService(
		repos.tx,
		repos.leaveRequests,
		repos.approvalConfig,
		repos.employees,
		notifier,
		leaveService.Options{
			Quotas: map[leave.Category]int{
				leave.CategoryCasual: cfg.Leave.QuotaCasual,
				leave.CategorySick:   cfg.Leave.QuotaSick,
			},
		},
	)
	payrollSvc := payrollService.NewPayrollService(
		repos.tx,
		payrollService.Repositories{
			Employees:    repos.employees,
			Holidays:     repos.holidays,
			Sessions:     repos.sessions,
			Leaves:       repos.leaveRequests,
			Compensation: repos.compensation,
			Runs:         repos.runs,
			Lines:        repos.lines,
		},
		notifier,
		payrollService.Options{
			MinPresenceSeconds: cfg.Attendance.MinPresenceSeconds,
			PaidCategories:     paidCategories,
		},
	)

	if err := leaveSvc.EnsureApprovalConfig(ctx); err != nil {
		log.Fatal("Error initialising leave approval configuration: ", err)
	}

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(repos.sessions, repos.employees, notifier, cfg.Attendance.ReminderInterval, time.Now).
		RegisterJobs(scheduler)
	scheduler.Start(ctx)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{Env: cfg.App.Env, CORSOrigins: cfg.App.CORSOrigins},
		JWTService,
		appHTTP.Handlers{
			Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, time.Now),
			Leave:        appHTTP.NewLeaveHandler(leaveSvc, time.Now),
			Payroll:      appHTTP.NewPayrollHandler(payrollSvc, time.Now),
			Notification: appHTTP.NewNotificationHandler(notifier, JWTService),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: ", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	scheduler.Wait()
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		slog.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return repositories{
			tx:             store.Transactor(),
			employees:      memory.NewEmployeeRepository(store),
			holidays:       memory.NewHolidayRepository(store),
			sessions:       memory.NewAttendanceRepository(store),
			leaveRequests:  memory.NewLeaveRequestRepository(store),
			approvalConfig: memory.NewApprovalConfigRepository(store),
			compensation:   memory.NewCompensationRepository(store),
			runs:           memory.NewPayrollRunRepository(store),
			lines:          memory.NewPayrollLineRepository(store),
			close:          func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return repositories{}, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repositories{
		tx:             postgresql.NewTransactor(db),
		employees:      postgresql.NewEmployeeRepository(db),
		holidays:       postgresql.NewHolidayRepository(db),
		sessions:       postgresql.NewAttendanceRepository(db),
		leaveRequests:  postgresql.NewLeaveRequestRepository(db),
		approvalConfig: postgresql.NewApprovalConfigRepository(db),
		compensation:   postgresql.NewCompensationRepository(db),
		runs:           postgresql.NewPayrollRunRepository(db),
		lines:          postgresql.NewPayrollLineRepository(db),
		close:          db.Close,
	}, nil
}

func parseCategories(values []string) ([]leave.Category, error) {
	categories := make([]leave.Category, 0, len(values))
	for _, v := range values {
		c := leave.Category(strings.ToLower(v))
		if !c.IsValid() {
			return nil, fmt.Errorf("unknown leave category %q", v)
		}
		if c == leave.CategoryLWP {
			return nil, fmt.Errorf("leave category %q is unpaid", v)
		}
		categories = append(categories, c)
	}
	return categories, nil
}
