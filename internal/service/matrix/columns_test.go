package matrix

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMonthColumns_TwelveAscendingMonths(t *testing.T) {
	cols, err := GenerateMonthColumns("2026-04-01")
	require.NoError(t, err)
	require.Len(t, cols, 12)

	assert.Equal(t, "2026-04-01", cols[0].Key)
	assert.Equal(t, "2026-05-01", cols[1].Key)
	assert.Equal(t, "2027-03-01", cols[11].Key)

	// No gaps: every key is exactly i months after the start.
	start, err := time.Parse("2006-01-02", cols[0].Key)
	require.NoError(t, err)
	for i, c := range cols {
		want := start.AddDate(0, i, 0).Format("2006-01-02")
		assert.Equal(t, want, c.Key)
	}
}

func TestGenerateMonthColumns_NormalizesToFirstOfMonth(t *testing.T) {
	cols, err := GenerateMonthColumns("2026-04-17")
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", cols[0].Key)
}

func TestGenerateMonthColumns_YearRollover(t *testing.T) {
	cols, err := GenerateMonthColumns("2025-11-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", cols[1].Key)
	assert.Equal(t, "2026-01-01", cols[2].Key)
}

func TestGenerateMonthColumns_Labels(t *testing.T) {
	cols, err := GenerateMonthColumns("2026-04-01")
	require.NoError(t, err)
	assert.Equal(t, "4月", cols[0].Label)
	assert.Equal(t, "2026年4月", cols[0].FullLabel)
	assert.Equal(t, "1月", cols[9].Label)
	assert.Equal(t, "2027年1月", cols[9].FullLabel)
}

func TestGenerateMonthColumns_InvalidDate(t *testing.T) {
	_, err := GenerateMonthColumns("not-a-date")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = GenerateMonthColumns("2026/04/01")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestMonthIndex(t *testing.T) {
	cols, err := GenerateMonthColumns("2026-04-01")
	require.NoError(t, err)

	assert.Equal(t, 0, MonthIndex(cols, "2026-04-01"))
	assert.Equal(t, 11, MonthIndex(cols, "2027-03-01"))
	assert.Equal(t, -1, MonthIndex(cols, "2027-04-01"))
}
