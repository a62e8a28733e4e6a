package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/leave"
)

type leaveRequestRepository struct {
	s *Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{s: s}
}

func (r *leaveRequestRepository) withName(req leave.LeaveRequest) leave.LeaveRequest {
	if e, ok := r.s.d.employees[req.EmployeeID]; ok {
		name := e.FullName
		req.EmployeeName = &name
	}
	return req
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	defer r.s.lockWrite(ctx)()
	return r.withName(r.s.putLeaveLocked(req)), nil
}

func (r *leaveRequestRepository) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.d.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.withName(req), nil
}

// GetByIDForUpdate relies on WithinTx for exclusion.
func (r *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *leaveRequestRepository) UpdateDecision(ctx context.Context, req leave.LeaveRequest) error {
	defer r.s.lockWrite(ctx)()

	stored, ok := r.s.d.leaves[req.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	stored.Status = req.Status
	stored.CurrentApproverID = req.CurrentApproverID
	stored.Level1DecidedAt = req.Level1DecidedAt
	stored.Level2DecidedAt = req.Level2DecidedAt
	stored.UpdatedAt = r.s.now()
	r.s.d.leaves[req.ID] = stored
	return nil
}

func (r *leaveRequestRepository) filter(match func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []leave.LeaveRequest{}
	for _, req := range r.s.d.leaves {
		if match(req) {
			result = append(result, r.withName(req))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return r.s.d.leaveOrder[result[i].ID] < r.s.d.leaveOrder[result[j].ID]
	})
	return result
}

func (r *leaveRequestRepository) ListPendingByApproverForUpdate(_ context.Context, approverID string) ([]leave.LeaveRequest, error) {
	return r.filter(func(req leave.LeaveRequest) bool {
		return req.Status.IsPending() && req.IsCurrentApprover(approverID)
	}), nil
}

func (r *leaveRequestRepository) ListByEmployeeCode(_ context.Context, employeeCode string) ([]leave.LeaveRequest, error) {
	return r.filter(func(req leave.LeaveRequest) bool {
		return req.EmployeeCode == employeeCode
	}), nil
}

func (r *leaveRequestRepository) SumApprovedDays(_ context.Context, employeeID string, categories []leave.Category, from, to time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	total := 0
	for _, req := range r.s.d.leaves {
		if req.EmployeeID != employeeID || req.Status != leave.StatusApproved {
			continue
		}
		if !slices.Contains(categories, req.Category) {
			continue
		}
		if req.StartDate.Before(from) || req.StartDate.After(to) {
			continue
		}
		total += req.TotalDays
	}
	return total, nil
}

type approvalConfigRepository struct {
	s *Store
}

func NewApprovalConfigRepository(s *Store) leave.ApprovalConfigRepository {
	return &approvalConfigRepository{s: s}
}

func (r *approvalConfigRepository) Ensure(ctx context.Context) error {
	defer r.s.lockWrite(ctx)()
	if r.s.d.approvalCfg == nil {
		r.s.d.approvalCfg = &leave.ApprovalConfig{UpdatedAt: r.s.now()}
	}
	return nil
}

func (r *approvalConfigRepository) Get(_ context.Context) (leave.ApprovalConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.d.approvalCfg == nil {
		return leave.ApprovalConfig{}, leave.ErrApprovalConfigNotFound
	}
	return *r.s.d.approvalCfg, nil
}

func (r *approvalConfigRepository) Update(ctx context.Context, cfg leave.ApprovalConfig) (leave.ApprovalConfig, error) {
	defer r.s.lockWrite(ctx)()
	if r.s.d.approvalCfg == nil {
		return leave.ApprovalConfig{}, leave.ErrApprovalConfigNotFound
	}
	cfg.UpdatedAt = r.s.now()
	r.s.d.approvalCfg = &cfg
	return cfg, nil
}
