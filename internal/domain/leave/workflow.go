package leave

import (
	"time"
)

// InclusiveDays counts both the start and the end date.
func InclusiveDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrInvalidDateRange
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// ResolveApprovers picks the level-1 and level-2 identities for a new request.
// managerUserID is the linked account of the requester's manager, or nil.
func ResolveApprovers(cfg ApprovalConfig, managerUserID *string) (level1, level2 string, err error) {
	if cfg.UseManagerL1 {
		if isBlank(managerUserID) {
			return "", "", ErrManagerNotAssigned
		}
		level1 = *managerUserID
	} else {
		if isBlank(cfg.Level1ApproverID) {
			return "", "", ErrApproverNotConfigured
		}
		level1 = *cfg.Level1ApproverID
	}

	if isBlank(cfg.Level2ApproverID) {
		return "", "", ErrApproverNotConfigured
	}
	return level1, *cfg.Level2ApproverID, nil
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

func (r *LeaveRequest) IsCurrentApprover(actorID string) bool {
	return r.CurrentApproverID != nil && *r.CurrentApproverID == actorID
}

func (r *LeaveRequest) authorize(actorID string) error {
	if r.Status.IsTerminal() {
		return ErrInvalidState
	}
	if !r.IsCurrentApprover(actorID) {
		return ErrNotCurrentApprover
	}
	return nil
}

// Approve advances PENDING_L1 to PENDING_L2 and PENDING_L2 to APPROVED.
func (r *LeaveRequest) Approve(actorID string, now time.Time) error {
	if err := r.authorize(actorID); err != nil {
		return err
	}

	switch r.Status {
	case StatusPendingL1:
		r.Status = StatusPendingL2
		r.Level1DecidedAt = &now
		level2 := r.Level2ApproverID
		r.CurrentApproverID = &level2
	case StatusPendingL2:
		r.Status = StatusApproved
		r.Level2DecidedAt = &now
		r.CurrentApproverID = nil
	default:
		return ErrInvalidState
	}
	r.UpdatedAt = now
	return nil
}

// Reject moves a pending request to the rejected state of its level.
func (r *LeaveRequest) Reject(actorID string, now time.Time) error {
	if err := r.authorize(actorID); err != nil {
		return err
	}

	switch r.Status {
	case StatusPendingL1:
		r.Status = StatusRejectedL1
		r.Level1DecidedAt = &now
	case StatusPendingL2:
		r.Status = StatusRejectedL2
		r.Level2DecidedAt = &now
	default:
		return ErrInvalidState
	}
	r.CurrentApproverID = nil
	r.UpdatedAt = now
	return nil
}

// SkipSelfApproval advances a request that sits in its owner's own approval
// queue. A PENDING_L1 request is routed to level 2 and a PENDING_L2 request is
// approved; both steps can apply in one call when the owner holds both levels.
// Skipped levels keep their decision time unset.
// It reports whether the request changed.
func (r *LeaveRequest) SkipSelfApproval(approverID string, ownedByApprover bool, now time.Time) bool {
	if !ownedByApprover {
		return false
	}

	changed := false
	if r.Status == StatusPendingL1 && r.IsCurrentApprover(approverID) {
		r.Status = StatusPendingL2
		level2 := r.Level2ApproverID
		r.CurrentApproverID = &level2
		changed = true
	}
	if r.Status == StatusPendingL2 && r.IsCurrentApprover(approverID) {
		r.Status = StatusApproved
		r.CurrentApproverID = nil
		changed = true
	}
	if changed {
		r.UpdatedAt = now
	}
	return changed
}
