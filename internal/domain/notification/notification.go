package notification

import (
	"context"
	"time"
)

// EventType names a workflow notification pushed to connected clients.
type EventType string

const (
	TypeLeavePending   EventType = "leave.pending"
	TypeLeaveApproved  EventType = "leave.approved"
	TypeLeaveRejected  EventType = "leave.rejected"
	TypeLeaveEscalated EventType = "leave.escalated"
	TypePayrollClosed  EventType = "payroll.approved"
	TypeSessionClosed  EventType = "attendance.auto_closed"
	TypeSessionOpen    EventType = "attendance.still_open"
)

type Event struct {
	Type        EventType
	RecipientID string
	Title       string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// Notifier delivers events to a recipient's live connections. Delivery is
// best effort and never blocks the caller.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }
