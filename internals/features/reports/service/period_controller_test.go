// internals/features/reports/service/period_controller_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gmodel "laporanku_backend/internals/features/geography/model"
	membersvc "laporanku_backend/internals/features/members/service"
	model "laporanku_backend/internals/features/reports/model"
)

type controllerRig struct {
	pc *PeriodController
	fx geoFixture
}

func newControllerRig(t *testing.T, now time.Time) controllerRig {
	t.Helper()
	db := openTestDB(t)
	fx := seedGeo(t, db)
	pc := NewPeriodController(db, loadGeo(t, db), membersvc.NewActivityFactSource())
	pc.Now = func() time.Time { return now }
	return controllerRig{pc: pc, fx: fx}
}

func TestRunDailySingleDate(t *testing.T) {
	rig := newControllerRig(t, date(2026, time.March, 10))
	d := date(2026, time.March, 5)
	seedActivity(t, rig.pc.DB, rig.fx, uuid.New(), "Budi", d, rig.fx.VilDago)

	require.NoError(t, rig.pc.RunDaily(context.Background(), RunOptions{Date: &d}))

	period := DailyPeriod(d)
	assert.Equal(t, 1, mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelCountry, period, rig.fx.Country).LevelReportCount)
	assert.Equal(t, 1, mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelVillage, period, rig.fx.VilDago).LevelReportCount)
}

func TestRunDailyRangeDefaultsFromFirstFact(t *testing.T) {
	rig := newControllerRig(t, date(2026, time.March, 10))
	seedActivity(t, rig.pc.DB, rig.fx, uuid.New(), "Budi", date(2026, time.March, 7), rig.fx.VilDago)
	seedActivity(t, rig.pc.DB, rig.fx, uuid.New(), "Sari", date(2026, time.March, 9), rig.fx.VilBulusan)

	// tanpa argumen: first fact date .. kemarin
	require.NoError(t, rig.pc.RunDaily(context.Background(), RunOptions{}))

	for _, d := range []time.Time{
		date(2026, time.March, 7),
		date(2026, time.March, 8), // tanggal kosong tetap diproses
		date(2026, time.March, 9),
	} {
		country := mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelCountry, DailyPeriod(d), rig.fx.Country)
		if d.Day() == 8 {
			assert.Equal(t, 0, country.LevelReportCount)
		} else {
			assert.Equal(t, 1, country.LevelReportCount)
		}
	}
}

func TestRunDailyIdempotentSkipAndForce(t *testing.T) {
	rig := newControllerRig(t, date(2026, time.March, 10))
	d := date(2026, time.March, 5)
	seedActivity(t, rig.pc.DB, rig.fx, uuid.New(), "Budi", d, rig.fx.VilDago)

	require.NoError(t, rig.pc.RunDaily(context.Background(), RunOptions{Date: &d}))

	// fakta baru masuk setelah run pertama
	seedActivity(t, rig.pc.DB, rig.fx, uuid.New(), "Sari", d, rig.fx.VilDago)

	// tanpa force: periode sudah diproses → skip, count tidak berubah
	require.NoError(t, rig.pc.RunDaily(context.Background(), RunOptions{Date: &d}))
	period := DailyPeriod(d)
	assert.Equal(t, 1, mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelCountry, period, rig.fx.Country).LevelReportCount)

	// dengan force: regenerate dari fakta terkini
	require.NoError(t, rig.pc.RunDaily(context.Background(), RunOptions{Date: &d, Force: true}))
	assert.Equal(t, 2, mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelCountry, period, rig.fx.Country).LevelReportCount)
}

func TestRunDailyValidation(t *testing.T) {
	rig := newControllerRig(t, date(2026, time.March, 10))

	start := date(2026, time.March, 9)
	end := date(2026, time.March, 1)
	err := rig.pc.RunDaily(context.Background(), RunOptions{StartDate: &start, EndDate: &end})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after end date")

	today := date(2026, time.March, 10)
	s := date(2026, time.March, 1)
	err = rig.pc.RunDaily(context.Background(), RunOptions{StartDate: &s, EndDate: &today})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before today")

	// fact source kosong + tanpa start eksplisit = kesalahan konfigurasi
	err = rig.pc.RunDaily(context.Background(), RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fact source is empty")
}

func TestRunDailyFailedDateRollsBackAndRangeContinues(t *testing.T) {
	rig := newControllerRig(t, date(2026, time.March, 10))
	for _, d := range []time.Time{
		date(2026, time.March, 7),
		date(2026, time.March, 8),
		date(2026, time.March, 9),
	} {
		seedActivity(t, rig.pc.DB, rig.fx, uuid.New(), "Budi", d, rig.fx.VilDago)
	}
	rig.pc.Facts = &flakyFactSource{
		inner:    membersvc.NewActivityFactSource(),
		failDate: date(2026, time.March, 8),
	}

	// mode range: tanggal yang gagal di-log, range tetap jalan sampai habis
	require.NoError(t, rig.pc.RunDaily(context.Background(), RunOptions{}))

	assert.Equal(t, 1, mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelCountry,
		DailyPeriod(date(2026, time.March, 7)), rig.fx.Country).LevelReportCount)
	assert.Equal(t, 1, mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelCountry,
		DailyPeriod(date(2026, time.March, 9)), rig.fx.Country).LevelReportCount)

	// transaksi periode yang gagal di-rollback utuh: nol baris untuk tanggal itu
	var n int64
	require.NoError(t, rig.pc.DB.Model(&model.LevelReportModel{}).
		Where("level_report_period_key = ?", "2026-03-08").
		Count(&n).Error)
	assert.Zero(t, n)

	// mode satu tanggal: error yang sama naik ke pemanggil
	d := date(2026, time.March, 8)
	err := rig.pc.RunDaily(context.Background(), RunOptions{Date: &d})
	require.ErrorIs(t, err, errFactsUnavailable)
}

func TestRunDailyCancelledContext(t *testing.T) {
	rig := newControllerRig(t, date(2026, time.March, 10))
	d := date(2026, time.March, 5)
	seedActivity(t, rig.pc.DB, rig.fx, uuid.New(), "Budi", d, rig.fx.VilDago)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := rig.pc.RunDaily(ctx, RunOptions{Date: &d})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunWeeklyAggregatesDailyVillageReports(t *testing.T) {
	// minggu 2026-03-02 (Senin) .. 2026-03-08 sudah utuh berlalu
	rig := newControllerRig(t, date(2026, time.March, 12))
	budi, sari := uuid.New(), uuid.New()

	// Budi aktif dua hari, Sari satu hari, count minggu = 3, user unik = 2
	seedActivity(t, rig.pc.DB, rig.fx, budi, "Budi", date(2026, time.March, 2), rig.fx.VilDago)
	seedActivity(t, rig.pc.DB, rig.fx, budi, "Budi", date(2026, time.March, 3), rig.fx.VilDago)
	seedActivity(t, rig.pc.DB, rig.fx, sari, "Sari", date(2026, time.March, 4), rig.fx.VilDago)

	require.NoError(t, rig.pc.RunDaily(context.Background(), RunOptions{}))

	anchor := date(2026, time.March, 2)
	require.NoError(t, rig.pc.RunWeekly(context.Background(), RunOptions{StartDate: &anchor, EndDate: &anchor}))

	period := WeeklyPeriod(anchor)
	assert.Equal(t, "2026-W10", period.Key)

	village := mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelVillage, period, rig.fx.VilDago)
	assert.Equal(t, 3, village.LevelReportCount)
	assert.Len(t, village.LevelReportUserData, 2)

	country := mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelCountry, period, rig.fx.Country)
	assert.Equal(t, 3, country.LevelReportCount)
	require.NotNil(t, country.LevelReportWeekStart)
	assert.Equal(t, anchor, DateOnly(*country.LevelReportWeekStart))
}

func TestRunWeeklySkipsCurrentWeek(t *testing.T) {
	// hari ini Rabu, minggu berjalan belum utuh, minggu lalu yang diproses
	rig := newControllerRig(t, date(2026, time.March, 11))
	seedActivity(t, rig.pc.DB, rig.fx, uuid.New(), "Budi", date(2026, time.March, 3), rig.fx.VilDago)
	seedActivity(t, rig.pc.DB, rig.fx, uuid.New(), "Sari", date(2026, time.March, 10), rig.fx.VilDago)

	require.NoError(t, rig.pc.RunDaily(context.Background(), RunOptions{}))
	require.NoError(t, rig.pc.RunWeekly(context.Background(), RunOptions{}))

	// minggu 2026-03-02 diproses
	assert.Equal(t, 1, mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelCountry,
		WeeklyPeriod(date(2026, time.March, 2)), rig.fx.Country).LevelReportCount)

	// minggu berjalan (2026-03-09) tidak
	row, err := rig.pc.Store.GetByGeo(rig.pc.DB, gmodel.LevelCountry,
		WeeklyPeriod(date(2026, time.March, 9)), rig.fx.Country)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestRunMonthlyAggregatesDailyVillageReports(t *testing.T) {
	rig := newControllerRig(t, date(2026, time.March, 10))
	seedActivity(t, rig.pc.DB, rig.fx, uuid.New(), "Budi", date(2026, time.February, 3), rig.fx.VilDago)
	seedActivity(t, rig.pc.DB, rig.fx, uuid.New(), "Sari", date(2026, time.February, 20), rig.fx.VilHegarmanah)

	require.NoError(t, rig.pc.RunDaily(context.Background(), RunOptions{}))

	anchor := date(2026, time.February, 1)
	require.NoError(t, rig.pc.RunMonthly(context.Background(), RunOptions{StartDate: &anchor, EndDate: &anchor}))

	period := MonthlyPeriod(2026, time.February)
	country := mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelCountry, period, rig.fx.Country)
	assert.Equal(t, 2, country.LevelReportCount)
	require.NotNil(t, country.LevelReportMonthLastDate)
	assert.Equal(t, date(2026, time.February, 28), DateOnly(*country.LevelReportMonthLastDate))

	assert.Equal(t, 1, mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelSubdistrict, period, rig.fx.SubCoblong).LevelReportCount)
	assert.Equal(t, 2, mustGetReport(t, rig.pc.DB, rig.pc.Store, gmodel.LevelDistrict, period, rig.fx.DistrictBandung).LevelReportCount)
}
