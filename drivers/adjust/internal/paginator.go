package driver

import "time"

const dayLayout = "2006-01-02"

// datePaginator walks one-day windows from start to end inclusive. The end is
// clamped to today so a sync never requests future days the API has no data
// for.
type datePaginator struct {
	current time.Time
	end     time.Time
}

func newDatePaginator(start, end time.Time) *datePaginator {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if end.After(today) {
		end = today
	}

	return &datePaginator{
		current: start.UTC().Truncate(24 * time.Hour),
		end:     end,
	}
}

func (p *datePaginator) HasMore() bool {
	return !p.current.After(p.end)
}

// Next returns the next day window and advances the paginator.
func (p *datePaginator) Next() time.Time {
	day := p.current
	p.current = p.current.AddDate(0, 0, 1)
	return day
}
