package memory

import (
	"context"
	"sort"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/payroll"
)

type compensationRepository struct {
	s *Store
}

func NewCompensationRepository(s *Store) payroll.CompensationRepository {
	return &compensationRepository{s: s}
}

func (r *compensationRepository) GetByEmployeeID(_ context.Context, employeeID string) (payroll.CompensationProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.d.compensation[employeeID]
	if !ok {
		return payroll.CompensationProfile{}, payroll.ErrCompensationProfileNotFound
	}
	return p, nil
}

type payrollRunRepository struct {
	s *Store
}

func NewPayrollRunRepository(s *Store) payroll.PayrollRunRepository {
	return &payrollRunRepository{s: s}
}

func (r *payrollRunRepository) Get(_ context.Context, year int, month time.Month) (payroll.PayrollRun, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	run, ok := r.s.d.runs[periodKey{year, month}]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
	}
	return run, nil
}

func (r *payrollRunRepository) Approve(ctx context.Context, year int, month time.Month, at time.Time) (payroll.PayrollRun, error) {
	defer r.s.lockWrite(ctx)()
	run := payroll.PayrollRun{Year: year, Month: month, Approved: true, ApprovedAt: &at}
	r.s.d.runs[periodKey{year, month}] = run
	return run, nil
}

type payrollLineRepository struct {
	s *Store
}

func NewPayrollLineRepository(s *Store) payroll.PayrollLineRepository {
	return &payrollLineRepository{s: s}
}

func (r *payrollLineRepository) ReplaceForPeriod(ctx context.Context, year int, month time.Month, lines []payroll.PayrollLine) error {
	defer r.s.lockWrite(ctx)()
	snapshot := make(map[string]payroll.PayrollLine, len(lines))
	for _, l := range lines {
		l.Year = year
		l.Month = month
		snapshot[l.EmployeeID] = l
	}
	r.s.d.payrollLines[periodKey{year, month}] = snapshot
	return nil
}

func (r *payrollLineRepository) GetByEmployee(_ context.Context, employeeID string, year int, month time.Month) (payroll.PayrollLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.d.payrollLines[periodKey{year, month}][employeeID]
	if !ok {
		return payroll.PayrollLine{}, payroll.ErrPayrollLineNotFound
	}
	return l, nil
}

func (r *payrollLineRepository) ListByPeriod(_ context.Context, year int, month time.Month) ([]payroll.PayrollLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	lines := []payroll.PayrollLine{}
	for _, l := range r.s.d.payrollLines[periodKey{year, month}] {
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].EmployeeCode < lines[j].EmployeeCode })
	return lines, nil
}
