package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatePaginatorWalksInclusiveRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	pager := newDatePaginator(start, end)
	var days []string
	for pager.HasMore() {
		days = append(days, pager.Next().Format(dayLayout))
	}

	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, days)
}

func TestDatePaginatorEmptyWhenStartAfterEnd(t *testing.T) {
	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	pager := newDatePaginator(start, end)
	assert.False(t, pager.HasMore())
}

func TestDatePaginatorClampsToToday(t *testing.T) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -1)
	end := today.AddDate(0, 0, 10)

	pager := newDatePaginator(start, end)
	var days []time.Time
	for pager.HasMore() {
		days = append(days, pager.Next())
	}

	require.Equal(t, 2, len(days), "future days must never be requested")
	assert.Equal(t, today, days[1])
}
