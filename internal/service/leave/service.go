package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/employee"
	"github.com/atikes/hr-backend-go/internal/domain/leave"
	"github.com/atikes/hr-backend-go/internal/domain/notification"
	"github.com/atikes/hr-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type Options struct {
	// Quotas is the yearly allowance per category. Categories without an
	// entry are reported without a quota.
	Quotas map[leave.Category]int
}

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	leave.ApprovalConfigRepository
	employee.EmployeeRepository
	notifier notification.Notifier
	opts     Options
}

func NewLeaveService(
	tx database.Transactor,
	requestRepo leave.LeaveRequestRepository,
	configRepo leave.ApprovalConfigRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
	opts Options,
) leave.LeaveService {
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &LeaveServiceImpl{
		tx:                       tx,
		LeaveRequestRepository:   requestRepo,
		ApprovalConfigRepository: configRepo,
		EmployeeRepository:       employeeRepo,
		notifier:                 notifier,
		opts:                     opts,
	}
}

// Submit implements leave.LeaveService.
func (l *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitLeaveRequest, now time.Time) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	start, end := req.Dates()
	totalDays, err := leave.InclusiveDays(start, end)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if !emp.IsActive {
		return leave.LeaveRequest{}, employee.ErrEmployeeInactive
	}

	cfg, err := l.ApprovalConfigRepository.Get(ctx)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	var managerUserID *string
	if cfg.UseManagerL1 && emp.HasManager() {
		manager, err := l.EmployeeRepository.GetByID(ctx, *emp.ManagerID)
		if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.LeaveRequest{}, fmt.Errorf("failed to get manager: %w", err)
		}
		if err == nil {
			managerUserID = &manager.UserID
		}
	}

	level1, level2, err := leave.ResolveApprovers(cfg, managerUserID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to generate leave request id: %w", err)
	}

	now = now.UTC()
	current := level1
	created, err := l.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		ID:                id.String(),
		EmployeeID:        emp.ID,
		EmployeeCode:      emp.Code,
		StartDate:         start,
		EndDate:           end,
		TotalDays:         totalDays,
		Category:          leave.Category(strings.ToLower(req.Category)),
		Reason:            strings.TrimSpace(req.Reason),
		Status:            leave.StatusPendingL1,
		Level1ApproverID:  level1,
		Level2ApproverID:  level2,
		CurrentApproverID: &current,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	if created.EmployeeName == nil {
		created.EmployeeName = &emp.FullName
	}

	l.notify(ctx, notification.Event{
		Type:        notification.TypeLeavePending,
		RecipientID: level1,
		Title:       fmt.Sprintf("%s requested %d day(s) of %s leave", emp.FullName, totalDays, created.Category),
		Data:        leaveEventData(created),
		CreatedAt:   now,
	})
	return created, nil
}

// Approve implements leave.LeaveService.
func (l *LeaveServiceImpl) Approve(ctx context.Context, leaveID string, actorID string, now time.Time) (leave.LeaveRequest, error) {
	updated, err := l.decide(ctx, leaveID, func(r *leave.LeaveRequest) error {
		return r.Approve(actorID, now.UTC())
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	switch updated.Status {
	case leave.StatusPendingL2:
		l.notify(ctx, notification.Event{
			Type:        notification.TypeLeaveEscalated,
			RecipientID: updated.Level2ApproverID,
			Title:       "A leave request is waiting for your approval",
			Data:        leaveEventData(updated),
			CreatedAt:   now,
		})
	case leave.StatusApproved:
		l.notifyOwner(ctx, updated, notification.TypeLeaveApproved, "Your leave request was approved", now)
	}
	return updated, nil
}

// Reject implements leave.LeaveService.
func (l *LeaveServiceImpl) Reject(ctx context.Context, leaveID string, actorID string, now time.Time) (leave.LeaveRequest, error) {
	updated, err := l.decide(ctx, leaveID, func(r *leave.LeaveRequest) error {
		return r.Reject(actorID, now.UTC())
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	l.notifyOwner(ctx, updated, notification.TypeLeaveRejected, "Your leave request was rejected", now)
	return updated, nil
}

func (l *LeaveServiceImpl) decide(ctx context.Context, leaveID string, transition func(*leave.LeaveRequest) error) (leave.LeaveRequest, error) {
	var updated leave.LeaveRequest
	err := l.tx.WithinTx(ctx, func(txCtx context.Context) error {
		request, err := l.LeaveRequestRepository.GetByIDForUpdate(txCtx, leaveID)
		if err != nil {
			return err
		}
		if err := transition(&request); err != nil {
			return err
		}
		if err := l.LeaveRequestRepository.UpdateDecision(txCtx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		updated = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return updated, nil
}

// PendingFor implements leave.LeaveService.
func (l *LeaveServiceImpl) PendingFor(ctx context.Context, approverID string, now time.Time) ([]leave.LeaveRequest, error) {
	now = now.UTC()

	var (
		pending   []leave.LeaveRequest
		escalated []leave.LeaveRequest
	)
	err := l.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var approverEmployeeID string
		approver, err := l.EmployeeRepository.GetByUserID(txCtx, approverID)
		switch {
		case err == nil:
			approverEmployeeID = approver.ID
		case !errors.Is(err, employee.ErrEmployeeNotFound):
			return fmt.Errorf("failed to get approver employee: %w", err)
		}

		requests, err := l.LeaveRequestRepository.ListPendingByApproverForUpdate(txCtx, approverID)
		if err != nil {
			return fmt.Errorf("failed to list pending leave requests: %w", err)
		}

		pending = make([]leave.LeaveRequest, 0, len(requests))
		for _, r := range requests {
			owned := approverEmployeeID != "" && r.EmployeeID == approverEmployeeID
			if r.SkipSelfApproval(approverID, owned, now) {
				if err := l.LeaveRequestRepository.UpdateDecision(txCtx, r); err != nil {
					return fmt.Errorf("failed to route leave request: %w", err)
				}
				slog.Info("Routed leave request past its owner",
					"leave_id", r.ID,
					"approver_id", approverID,
					"status", r.Status,
				)
				escalated = append(escalated, r)
				continue
			}
			if owned || !r.IsCurrentApprover(approverID) {
				continue
			}
			pending = append(pending, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, r := range escalated {
		if r.Status == leave.StatusPendingL2 {
			l.notify(ctx, notification.Event{
				Type:        notification.TypeLeaveEscalated,
				RecipientID: r.Level2ApproverID,
				Title:       "A leave request is waiting for your approval",
				Data:        leaveEventData(r),
				CreatedAt:   now,
			})
		}
	}
	return pending, nil
}

// HistoryFor implements leave.LeaveService.
func (l *LeaveServiceImpl) HistoryFor(ctx context.Context, employeeCode string) ([]leave.LeaveRequest, error) {
	if _, err := l.EmployeeRepository.GetByCode(ctx, employeeCode); err != nil {
		return nil, err
	}
	requests, err := l.LeaveRequestRepository.ListByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

// EmployeeCode implements leave.LeaveService.
func (l *LeaveServiceImpl) EmployeeCode(ctx context.Context, employeeID string) (string, error) {
	emp, err := l.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return "", err
	}
	return emp.Code, nil
}

// Balance implements leave.LeaveService.
func (l *LeaveServiceImpl) Balance(ctx context.Context, employeeCode string, year int) ([]leave.Balance, error) {
	emp, err := l.EmployeeRepository.GetByCode(ctx, employeeCode)
	if err != nil {
		return nil, err
	}
	return l.balancesFor(ctx, emp.ID, year)
}

// BalanceSummary implements leave.LeaveService.
func (l *LeaveServiceImpl) BalanceSummary(ctx context.Context, year int) ([]leave.EmployeeBalance, error) {
	employees, err := l.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	summary := make([]leave.EmployeeBalance, 0, len(employees))
	for _, emp := range employees {
		balances, err := l.balancesFor(ctx, emp.ID, year)
		if err != nil {
			return nil, err
		}
		summary = append(summary, leave.EmployeeBalance{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.Code,
			EmployeeName: emp.FullName,
			Balances:     balances,
		})
	}
	return summary, nil
}

func (l *LeaveServiceImpl) balancesFor(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	balances := make([]leave.Balance, 0, len(leave.AllCategories()))
	for _, category := range leave.AllCategories() {
		consumed, err := l.LeaveRequestRepository.SumApprovedDays(ctx, employeeID, []leave.Category{category}, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to sum approved %s days: %w", category, err)
		}

		b := leave.Balance{Category: category, Consumed: consumed}
		if quota, ok := l.opts.Quotas[category]; ok {
			remaining := quota - consumed
			b.Quota = &quota
			b.Remaining = &remaining
		}
		balances = append(balances, b)
	}
	return balances, nil
}

// EnsureApprovalConfig implements leave.LeaveService.
func (l *LeaveServiceImpl) EnsureApprovalConfig(ctx context.Context) error {
	if err := l.ApprovalConfigRepository.Ensure(ctx); err != nil {
		return fmt.Errorf("failed to initialise approval configuration: %w", err)
	}
	return nil
}

// GetApprovalConfig implements leave.LeaveService.
func (l *LeaveServiceImpl) GetApprovalConfig(ctx context.Context) (leave.ApprovalConfig, error) {
	return l.ApprovalConfigRepository.Get(ctx)
}

// UpdateApprovalConfig implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateApprovalConfig(ctx context.Context, req leave.UpdateApprovalConfigRequest) (leave.ApprovalConfig, error) {
	if err := req.Validate(); err != nil {
		return leave.ApprovalConfig{}, err
	}
	cfg, err := l.ApprovalConfigRepository.Update(ctx, req.ToConfig())
	if err != nil {
		return leave.ApprovalConfig{}, err
	}
	slog.Info("Leave approval configuration updated",
		"use_manager_l1", cfg.UseManagerL1,
		"level2_approver_id", *cfg.Level2ApproverID,
	)
	return cfg, nil
}

func (l *LeaveServiceImpl) notifyOwner(ctx context.Context, r leave.LeaveRequest, eventType notification.EventType, title string, now time.Time) {
	owner, err := l.EmployeeRepository.GetByID(ctx, r.EmployeeID)
	if err != nil {
		slog.Warn("Failed to resolve leave owner for notification", "leave_id", r.ID, "error", err)
		return
	}
	l.notify(ctx, notification.Event{
		Type:        eventType,
		RecipientID: owner.UserID,
		Title:       title,
		Data:        leaveEventData(r),
		CreatedAt:   now,
	})
}

func (l *LeaveServiceImpl) notify(ctx context.Context, event notification.Event) {
	if err := l.notifier.Notify(ctx, event); err != nil {
		slog.Warn("Failed to send notification", "type", event.Type, "recipient_id", event.RecipientID, "error", err)
	}
}

func leaveEventData(r leave.LeaveRequest) map[string]interface{} {
	return map[string]interface{}{
		"leave_id":      r.ID,
		"employee_code": r.EmployeeCode,
		"status":        string(r.Status),
		"start_date":    r.StartDate.Format("2006-01-02"),
		"end_date":      r.EndDate.Format("2006-01-02"),
	}
}
