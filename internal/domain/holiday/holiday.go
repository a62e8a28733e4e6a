package holiday

import (
	"context"
	"time"
)

type Holiday struct {
	Date time.Time
	Name string
}

// HolidayRepository exposes the configured holiday calendar. Holidays are
// maintained outside this service.
type HolidayRepository interface {
	ListByMonth(ctx context.Context, year int, month time.Month) ([]Holiday, error)
}
