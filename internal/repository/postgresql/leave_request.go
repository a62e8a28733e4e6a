package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/leave"
	"github.com/atikes/hr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `lr.id, lr.employee_id, lr.employee_code, lr.start_date, lr.end_date, lr.total_days,
	lr.category, lr.reason, lr.status, lr.level1_approver_id, lr.level2_approver_id, lr.current_approver_id,
	lr.level1_decided_at, lr.level2_decided_at, lr.created_at, lr.updated_at, e.full_name`

const leaveRequestFrom = ` FROM leave_requests lr LEFT JOIN employees e ON e.id = lr.employee_id `

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.EmployeeCode, &r.StartDate, &r.EndDate, &r.TotalDays,
		&r.Category, &r.Reason, &r.Status, &r.Level1ApproverID, &r.Level2ApproverID, &r.CurrentApproverID,
		&r.Level1DecidedAt, &r.Level2DecidedAt, &r.CreatedAt, &r.UpdatedAt, &r.EmployeeName,
	)
	return r, err
}

func (r *leaveRequestRepositoryImpl) getOne(ctx context.Context, suffix string, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + `WHERE lr.id = $1` + suffix
	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, employee_code, start_date, end_date, total_days, category, reason,
			status, level1_approver_id, level2_approver_id, current_approver_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID,
		req.EmployeeID,
		req.EmployeeCode,
		req.StartDate,
		req.EndDate,
		req.TotalDays,
		req.Category,
		req.Reason,
		req.Status,
		req.Level1ApproverID,
		req.Level2ApproverID,
		req.CurrentApproverID,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.getOne(ctx, "", id)
}

// GetByIDForUpdate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.getOne(ctx, " FOR UPDATE OF lr", id)
}

// UpdateDecision implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateDecision(ctx context.Context, req leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_requests
		SET status = $2,
			current_approver_id = $3,
			level1_decided_at = $4,
			level2_decided_at = $5,
			updated_at = NOW()
		WHERE id = $1
	`, req.ID, req.Status, req.CurrentApproverID, req.Level1DecidedAt, req.Level2DecidedAt)
	if err != nil {
		return fmt.Errorf("failed to update leave request decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// ListPendingByApproverForUpdate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListPendingByApproverForUpdate(ctx context.Context, approverID string) ([]leave.LeaveRequest, error) {
	return r.list(ctx, `SELECT `+leaveRequestColumns+leaveRequestFrom+`
		WHERE lr.current_approver_id = $1 AND lr.status IN ('PENDING_L1', 'PENDING_L2')
		ORDER BY lr.created_at, lr.id
		FOR UPDATE OF lr
	`, approverID)
}

// ListByEmployeeCode implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployeeCode(ctx context.Context, employeeCode string) ([]leave.LeaveRequest, error) {
	return r.list(ctx, `SELECT `+leaveRequestColumns+leaveRequestFrom+`
		WHERE lr.employee_code = $1
		ORDER BY lr.created_at, lr.id
	`, employeeCode)
}

// SumApprovedDays implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) SumApprovedDays(ctx context.Context, employeeID string, categories []leave.Category, from, to time.Time) (int, error) {
	if len(categories) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}

	var total int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_days), 0)
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = 'APPROVED'
		  AND category = ANY($2)
		  AND start_date BETWEEN $3 AND $4
	`, employeeID, names, from, to).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum approved leave days: %w", err)
	}
	return total, nil
}
