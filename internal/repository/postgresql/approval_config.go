package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/atikes/hr-backend-go/internal/domain/leave"
	"github.com/atikes/hr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type approvalConfigRepositoryImpl struct {
	db *database.DB
}

func NewApprovalConfigRepository(db *database.DB) leave.ApprovalConfigRepository {
	return &approvalConfigRepositoryImpl{db: db}
}

// Ensure implements leave.ApprovalConfigRepository.
func (a *approvalConfigRepositoryImpl) Ensure(ctx context.Context) error {
	q := GetQuerier(ctx, a.db)

	if _, err := q.Exec(ctx, `
		INSERT INTO leave_approval_config (id) VALUES (1)
		ON CONFLICT (id) DO NOTHING
	`); err != nil {
		return fmt.Errorf("failed to ensure approval config: %w", err)
	}
	return nil
}

// Get implements leave.ApprovalConfigRepository.
func (a *approvalConfigRepositoryImpl) Get(ctx context.Context) (leave.ApprovalConfig, error) {
	q := GetQuerier(ctx, a.db)

	var cfg leave.ApprovalConfig
	err := q.QueryRow(ctx, `
		SELECT use_manager_l1, level1_approver_id, level2_approver_id, updated_at
		FROM leave_approval_config
		WHERE id = 1
	`).Scan(&cfg.UseManagerL1, &cfg.Level1ApproverID, &cfg.Level2ApproverID, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ApprovalConfig{}, leave.ErrApprovalConfigNotFound
		}
		return leave.ApprovalConfig{}, fmt.Errorf("failed to get approval config: %w", err)
	}
	return cfg, nil
}

// Update implements leave.ApprovalConfigRepository.
func (a *approvalConfigRepositoryImpl) Update(ctx context.Context, cfg leave.ApprovalConfig) (leave.ApprovalConfig, error) {
	q := GetQuerier(ctx, a.db)

	err := q.QueryRow(ctx, `
		UPDATE leave_approval_config
		SET use_manager_l1 = $1, level1_approver_id = $2, level2_approver_id = $3, updated_at = NOW()
		WHERE id = 1
		RETURNING updated_at
	`, cfg.UseManagerL1, cfg.Level1ApproverID, cfg.Level2ApproverID).Scan(&cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ApprovalConfig{}, leave.ErrApprovalConfigNotFound
		}
		return leave.ApprovalConfig{}, fmt.Errorf("failed to update approval config: %w", err)
	}
	return cfg, nil
}
