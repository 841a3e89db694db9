// internals/features/reports/service/period.go
package service

import (
	"fmt"
	"time"

	model "laporanku_backend/internals/features/reports/model"
)

/* ===================== DATE HELPERS ===================== */

// DateOnly menormalkan ke tengah malam UTC. Semua kolom DATE lewat sini
// supaya penulisan & perbandingan konsisten.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart: Senin dari minggu yang memuat d.
func WeekStart(d time.Time) time.Time {
	d = DateOnly(d)
	offset := (int(d.Weekday()) + 6) % 7 // Senin = 0
	return d.AddDate(0, 0, -offset)
}

// MonthStart: tanggal 1 bulan yang memuat d.
func MonthStart(d time.Time) time.Time {
	d = DateOnly(d)
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthLastDate: tanggal terakhir bulan (year, month).
func MonthLastDate(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
}

/* ===================== PERIOD REF ===================== */

// PeriodRef mengidentifikasi satu periode laporan secara lengkap: kunci
// kanonik untuk uniqueness + kolom deskriptif untuk konsumen.
type PeriodRef struct {
	Kind model.PeriodKind
	Key  string

	Date          *time.Time
	WeekStart     *time.Time
	WeekLast      *time.Time
	WeekNumber    *int
	Year          *int
	Month         *int
	MonthLastDate *time.Time
}

func DailyPeriod(d time.Time) PeriodRef {
	d = DateOnly(d)
	return PeriodRef{
		Kind: model.PeriodDaily,
		Key:  d.Format("2006-01-02"),
		Date: &d,
	}
}

func WeeklyPeriod(anchor time.Time) PeriodRef {
	start := WeekStart(anchor)
	last := start.AddDate(0, 0, 6)
	isoYear, isoWeek := start.ISOWeek()
	return PeriodRef{
		Kind:       model.PeriodWeekly,
		Key:        fmt.Sprintf("%04d-W%02d", isoYear, isoWeek),
		WeekStart:  &start,
		WeekLast:   &last,
		WeekNumber: &isoWeek,
		Year:       &isoYear,
	}
}

func MonthlyPeriod(year int, month time.Month) PeriodRef {
	m := int(month)
	last := MonthLastDate(year, month)
	return PeriodRef{
		Kind:          model.PeriodMonthly,
		Key:           fmt.Sprintf("%04d-%02d", year, m),
		Year:          &year,
		Month:         &m,
		MonthLastDate: &last,
	}
}

// Range hari yang dicakup periode ini (inklusif).
func (p PeriodRef) Range() (time.Time, time.Time) {
	switch p.Kind {
	case model.PeriodDaily:
		return *p.Date, *p.Date
	case model.PeriodWeekly:
		return *p.WeekStart, *p.WeekLast
	case model.PeriodMonthly:
		start := time.Date(*p.Year, time.Month(*p.Month), 1, 0, 0, 0, 0, time.UTC)
		return start, *p.MonthLastDate
	}
	return time.Time{}, time.Time{}
}

/* ===================== RANGE VALIDATION ===================== */

// ValidateRange: start tidak boleh setelah end, dan end tidak boleh menyentuh
// hari ini/masa depan (hari berjalan belum "tutup buku").
func ValidateRange(start, end, today time.Time) error {
	start, end, today = DateOnly(start), DateOnly(end), DateOnly(today)
	if start.After(end) {
		return fmt.Errorf("start date %s is after end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	if !end.Before(today) {
		return fmt.Errorf("end date %s must be before today (%s); the current day is not closed yet",
			end.Format("2006-01-02"), today.Format("2006-01-02"))
	}
	return nil
}
