package matrix

import (
	"errors"
	"fmt"
	"time"

	"github.com/ghostplan/matrix/internal/domain/models"
)

const dateLayout = "2006-01-02"

// monthsPerWindow is the fixed fiscal-year window width.
const monthsPerWindow = 12

// ErrInvalidDateFormat reports a start date that is not YYYY-MM-DD.
var ErrInvalidDateFormat = errors.New("invalid date format")

// GenerateMonthColumns normalizes startDate to the first of its month and
// returns the twelve consecutive month buckets beginning there, ascending.
// Pure; safe to memoize by startDate.
func GenerateMonthColumns(startDate string) ([]models.MonthColumn, error) {
	t, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDateFormat, startDate)
	}

	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)

	cols := make([]models.MonthColumn, 0, monthsPerWindow)
	for i := 0; i < monthsPerWindow; i++ {
		m := start.AddDate(0, i, 0)
		cols = append(cols, models.MonthColumn{
			Key:       m.Format(dateLayout),
			Label:     fmt.Sprintf("%d月", int(m.Month())),
			FullLabel: fmt.Sprintf("%d年%d月", m.Year(), int(m.Month())),
		})
	}

	return cols, nil
}

// MonthIndex returns the position of a month key within the window, or -1
// when the key does not belong to it.
func MonthIndex(months []models.MonthColumn, key string) int {
	for i, m := range months {
		if m.Key == key {
			return i
		}
	}
	return -1
}
