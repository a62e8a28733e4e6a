// Package memory keeps every repository in process. It backs the unit tests
// and STORAGE_DRIVER=memory for local runs. Units of work run one at a time
// and writes outside them wait for the running one.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/attendance"
	"github.com/atikes/hr-backend-go/internal/domain/employee"
	"github.com/atikes/hr-backend-go/internal/domain/holiday"
	"github.com/atikes/hr-backend-go/internal/domain/leave"
	"github.com/atikes/hr-backend-go/internal/domain/payroll"
	"github.com/atikes/hr-backend-go/internal/pkg/database"
	"github.com/atikes/hr-backend-go/internal/pkg/shift"
)

type periodKey struct {
	Year  int
	Month time.Month
}

type data struct {
	employees     map[string]employee.Employee
	sessions      map[string]attendance.Session
	leaves        map[string]leave.LeaveRequest
	approvalCfg   *leave.ApprovalConfig
	holidays      map[time.Time]holiday.Holiday
	compensation  map[string]payroll.CompensationProfile
	runs          map[periodKey]payroll.PayrollRun
	payrollLines  map[periodKey]map[string]payroll.PayrollLine
	leaveOrder    map[string]int64
	leaveSequence int64
}

func (d *data) clone() *data {
	c := &data{
		employees:     maps.Clone(d.employees),
		sessions:      maps.Clone(d.sessions),
		leaves:        maps.Clone(d.leaves),
		leaveOrder:    maps.Clone(d.leaveOrder),
		holidays:      maps.Clone(d.holidays),
		compensation:  maps.Clone(d.compensation),
		runs:          maps.Clone(d.runs),
		payrollLines:  make(map[periodKey]map[string]payroll.PayrollLine, len(d.payrollLines)),
		leaveSequence: d.leaveSequence,
	}
	if d.approvalCfg != nil {
		cfg := *d.approvalCfg
		c.approvalCfg = &cfg
	}
	for k, v := range d.payrollLines {
		c.payrollLines[k] = maps.Clone(v)
	}
	return c
}

// Store is the shared state behind the memory repositories.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	d    *data
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		d: &data{
			employees:    make(map[string]employee.Employee),
			sessions:     make(map[string]attendance.Session),
			leaves:       make(map[string]leave.LeaveRequest),
			leaveOrder:   make(map[string]int64),
			holidays:     make(map[time.Time]holiday.Holiday),
			compensation: make(map[string]payroll.CompensationProfile),
			runs:         make(map[periodKey]payroll.PayrollRun),
			payrollLines: make(map[periodKey]map[string]payroll.PayrollLine),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

type txKey struct{}

type transactor struct {
	s *Store
}

func (s *Store) Transactor() database.Transactor {
	return &transactor{s: s}
}

// WithinTx runs units of work one at a time. State changed by a failing fn
// is restored.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	t.s.mu.RLock()
	snapshot := t.s.d.clone()
	t.s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.s.mu.Lock()
		t.s.d = snapshot
		t.s.mu.Unlock()
		return err
	}
	return nil
}

// lockWrite takes the write lock for a repository write. A write made
// outside a unit of work also waits for the running WithinTx, so a rollback
// never restores over it.
func (s *Store) lockWrite(ctx context.Context) (unlock func()) {
	if ctx.Value(txKey{}) != nil {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// ========== SEEDING ==========

func (s *Store) PutEmployee(e employee.Employee) {
	defer s.lockWrite(context.Background())()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
		e.UpdatedAt = e.CreatedAt
	}
	s.d.employees[e.ID] = e
}

func (s *Store) PutCompensation(p payroll.CompensationProfile) {
	defer s.lockWrite(context.Background())()
	s.d.compensation[p.EmployeeID] = p
}

func (s *Store) PutHoliday(h holiday.Holiday) {
	defer s.lockWrite(context.Background())()
	h.Date = shift.CivilDate(h.Date)
	s.d.holidays[h.Date] = h
}

// PutSession stores a session as is, bypassing the open-session check.
func (s *Store) PutSession(session attendance.Session) {
	defer s.lockWrite(context.Background())()
	s.d.sessions[session.ID] = session
}

func (s *Store) PutLeaveRequest(r leave.LeaveRequest) {
	defer s.lockWrite(context.Background())()
	s.putLeaveLocked(r)
}

func (s *Store) putLeaveLocked(r leave.LeaveRequest) leave.LeaveRequest {
	if _, exists := s.d.leaveOrder[r.ID]; !exists {
		s.d.leaveSequence++
		s.d.leaveOrder[r.ID] = s.d.leaveSequence
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	s.d.leaves[r.ID] = r
	return r
}
