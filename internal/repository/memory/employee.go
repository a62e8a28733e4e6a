package memory

import (
	"context"
	"sort"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/employee"
	"github.com/atikes/hr-backend-go/internal/domain/holiday"
	"github.com/atikes/hr-backend-go/internal/pkg/shift"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) find(match func(employee.Employee) bool) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.d.employees {
		if match(e) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *employeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.d.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// GetByIDForUpdate relies on WithinTx for exclusion.
func (r *employeeRepository) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return r.GetByID(ctx, id)
}

func (r *employeeRepository) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	return r.find(func(e employee.Employee) bool { return e.UserID == userID })
}

func (r *employeeRepository) GetByCode(_ context.Context, code string) (employee.Employee, error) {
	return r.find(func(e employee.Employee) bool { return e.Code == code })
}

func (r *employeeRepository) ListActive(_ context.Context) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []employee.Employee
	for _, e := range r.s.d.employees {
		if e.IsActive {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

type holidayRepository struct {
	s *Store
}

func NewHolidayRepository(s *Store) holiday.HolidayRepository {
	return &holidayRepository{s: s}
}

func (r *holidayRepository) ListByMonth(_ context.Context, year int, month time.Month) ([]holiday.Holiday, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	first, last := shift.MonthRange(year, month)
	var result []holiday.Holiday
	for _, h := range r.s.d.holidays {
		d := shift.CivilDate(h.Date)
		if d.Before(first) || d.After(last) {
			continue
		}
		result = append(result, h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}
