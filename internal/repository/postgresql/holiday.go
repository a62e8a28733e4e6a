package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/holiday"
	"github.com/atikes/hr-backend-go/internal/pkg/database"
	"github.com/atikes/hr-backend-go/internal/pkg/shift"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// ListByMonth implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) ListByMonth(ctx context.Context, year int, month time.Month) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)
	first, last := shift.MonthRange(year, month)

	rows, err := q.Query(ctx, `
		SELECT holiday_date, name
		FROM holidays
		WHERE holiday_date BETWEEN $1 AND $2
		ORDER BY holiday_date
	`, first, last)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var result []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}
