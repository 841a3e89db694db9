// internals/features/reports/service/period_test.go
package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "laporanku_backend/internals/features/reports/model"
)

func TestDateOnlyNormalizesToUTCMidnight(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	in := time.Date(2026, time.March, 5, 3, 14, 15, 9, jakarta)
	got := DateOnly(in)
	// 03:14 WIB = 20:14 UTC hari sebelumnya
	assert.Equal(t, date(2026, time.March, 4), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestWeekStartIsMonday(t *testing.T) {
	// 2026-03-02 adalah Senin
	monday := date(2026, time.March, 2)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		assert.Equal(t, monday, WeekStart(d), "day %s", d.Format("2006-01-02"))
	}
	assert.Equal(t, monday.AddDate(0, 0, -7), WeekStart(monday.AddDate(0, 0, -1)))
}

func TestPeriodKeys(t *testing.T) {
	daily := DailyPeriod(date(2026, time.March, 5))
	assert.Equal(t, model.PeriodDaily, daily.Kind)
	assert.Equal(t, "2026-03-05", daily.Key)

	weekly := WeeklyPeriod(date(2026, time.January, 7)) // minggu ISO 2 tahun 2026
	assert.Equal(t, "2026-W02", weekly.Key)
	assert.Equal(t, date(2026, time.January, 5), *weekly.WeekStart)
	assert.Equal(t, date(2026, time.January, 11), *weekly.WeekLast)

	monthly := MonthlyPeriod(2026, time.February)
	assert.Equal(t, "2026-02", monthly.Key)
	assert.Equal(t, date(2026, time.February, 28), *monthly.MonthLastDate)
}

func TestPeriodRange(t *testing.T) {
	start, end := DailyPeriod(date(2026, time.March, 5)).Range()
	assert.Equal(t, start, end)

	start, end = WeeklyPeriod(date(2026, time.March, 4)).Range()
	assert.Equal(t, date(2026, time.March, 2), start)
	assert.Equal(t, date(2026, time.March, 8), end)

	start, end = MonthlyPeriod(2024, time.February).Range()
	assert.Equal(t, date(2024, time.February, 1), start)
	assert.Equal(t, date(2024, time.February, 29), end) // tahun kabisat
}

func TestValidateRange(t *testing.T) {
	today := date(2026, time.March, 10)

	require.NoError(t, ValidateRange(date(2026, time.March, 1), date(2026, time.March, 9), today))

	err := ValidateRange(date(2026, time.March, 9), date(2026, time.March, 1), today)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after end date")

	// hari berjalan belum tutup buku
	err = ValidateRange(date(2026, time.March, 1), today, today)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before today")

	err = ValidateRange(date(2026, time.March, 1), today.AddDate(0, 0, 5), today)
	require.Error(t, err)
}
