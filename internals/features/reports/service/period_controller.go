// internals/features/reports/service/period_controller.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	gmodel "laporanku_backend/internals/features/geography/model"
	geosvc "laporanku_backend/internals/features/geography/service"
	membersvc "laporanku_backend/internals/features/members/service"
	model "laporanku_backend/internals/features/reports/model"
)

// RunOptions: kontrak argumen dari CLI (--date / --start-date / --end-date /
// --force). Zero value = pakai default range.
type RunOptions struct {
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
	Force     bool
}

// PeriodController mengorkestrasi satu run laporan: resolve range default,
// validasi fail-fast, lalu proses periode demi periode, satu transaksi per
// periode, gagal satu periode di-log dan lanjut ke periode berikutnya.
type PeriodController struct {
	DB     *gorm.DB
	Geo    *geosvc.GeographyIndex
	Facts  membersvc.FactSource
	Store  *ReportStore
	Engine *RollupEngine

	// Now bisa diganti di test.
	Now func() time.Time
}

func NewPeriodController(db *gorm.DB, geo *geosvc.GeographyIndex, facts membersvc.FactSource) *PeriodController {
	store := NewReportStore()
	return &PeriodController{
		DB:     db,
		Geo:    geo,
		Facts:  facts,
		Store:  store,
		Engine: NewRollupEngine(geo, store),
		Now:    time.Now,
	}
}

func (pc *PeriodController) today() time.Time { return DateOnly(pc.Now()) }

// firstFactDate: default awal range. Error kalau fact source kosong total;
// run pertama tanpa data adalah kesalahan konfigurasi, bukan no-op.
func (pc *PeriodController) firstFactDate(ctx context.Context) (time.Time, error) {
	first, err := pc.Facts.FirstFactDate(ctx, pc.DB)
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve first fact date: %w", err)
	}
	if first == nil {
		return time.Time{}, errors.New("fact source is empty; nothing to report")
	}
	return DateOnly(*first), nil
}

/* ===================== DAILY ===================== */

func (pc *PeriodController) RunDaily(ctx context.Context, opts RunOptions) error {
	today := pc.today()

	var start, end time.Time
	if opts.Date != nil {
		start = DateOnly(*opts.Date)
		end = start
	} else {
		if opts.StartDate != nil {
			start = DateOnly(*opts.StartDate)
		} else {
			first, err := pc.firstFactDate(ctx)
			if err != nil {
				return err
			}
			start = first
		}
		if opts.EndDate != nil {
			end = DateOnly(*opts.EndDate)
		} else {
			end = today.AddDate(0, 0, -1) // hari berjalan belum tutup buku
		}
	}
	if err := ValidateRange(start, end, today); err != nil {
		return err
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		// pembatalan hanya dicek di batas periode, tidak pernah di tengah rollup
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := pc.runDailyOne(ctx, DailyPeriod(d), opts.Force); err != nil {
			logrus.WithError(err).
				WithField("date", d.Format("2006-01-02")).
				Error("daily report failed; continuing with next date")
			if opts.Date != nil {
				return err
			}
		}
	}
	return nil
}

func (pc *PeriodController) runDailyOne(ctx context.Context, period PeriodRef, force bool) error {
	skip, err := pc.shouldSkip(period, force)
	if err != nil || skip {
		return err
	}
	return pc.DB.Transaction(func(tx *gorm.DB) error {
		facts, err := pc.Facts.FetchFacts(ctx, tx, *period.Date, *period.Date)
		if err != nil {
			return fmt.Errorf("fetch facts: %w", err)
		}
		return pc.Engine.Run(tx, period, AggregateLeaf(facts))
	})
}

/* ===================== WEEKLY ===================== */

func (pc *PeriodController) RunWeekly(ctx context.Context, opts RunOptions) error {
	today := pc.today()
	yesterday := today.AddDate(0, 0, -1)

	var start time.Time
	if opts.StartDate != nil {
		start = WeekStart(*opts.StartDate)
	} else {
		first, err := pc.firstFactDate(ctx)
		if err != nil {
			return err
		}
		start = WeekStart(first)
	}

	var end time.Time
	if opts.EndDate != nil {
		end = WeekStart(*opts.EndDate)
	} else {
		// Senin terakhir yang minggunya sudah utuh berlalu
		end = WeekStart(yesterday)
		if end.AddDate(0, 0, 6).After(yesterday) {
			end = end.AddDate(0, 0, -7)
		}
	}

	if start.After(end) {
		return fmt.Errorf("no fully elapsed week to process (start %s, end %s)",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	if err := ValidateRange(start, end.AddDate(0, 0, 6), today); err != nil {
		return err
	}

	for monday := start; !monday.After(end); monday = monday.AddDate(0, 0, 7) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := pc.runDerivedOne(WeeklyPeriod(monday), opts.Force); err != nil {
			logrus.WithError(err).
				WithField("week_start", monday.Format("2006-01-02")).
				Error("weekly report failed; continuing with next week")
		}
	}
	return nil
}

/* ===================== MONTHLY ===================== */

func (pc *PeriodController) RunMonthly(ctx context.Context, opts RunOptions) error {
	today := pc.today()

	var start time.Time
	if opts.StartDate != nil {
		start = MonthStart(*opts.StartDate)
	} else {
		first, err := pc.firstFactDate(ctx)
		if err != nil {
			return err
		}
		start = MonthStart(first)
	}

	var end time.Time
	if opts.EndDate != nil {
		end = MonthStart(*opts.EndDate)
	} else {
		end = MonthStart(MonthStart(today).AddDate(0, 0, -1)) // bulan utuh terakhir
	}

	if start.After(end) {
		return fmt.Errorf("no fully elapsed month to process (start %s, end %s)",
			start.Format("2006-01"), end.Format("2006-01"))
	}
	if err := ValidateRange(start, MonthLastDate(end.Year(), end.Month()), today); err != nil {
		return err
	}

	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := pc.runDerivedOne(MonthlyPeriod(m.Year(), m.Month()), opts.Force); err != nil {
			logrus.WithError(err).
				WithField("month", m.Format("2006-01")).
				Error("monthly report failed; continuing with next month")
		}
	}
	return nil
}

// runDerivedOne: weekly/monthly tidak membaca fakta mentah, mereka
// mengagregasi ulang laporan HARIAN village pada range periode (sum count,
// union user_data), lalu menjalankan rollup 4 stage yang sama.
func (pc *PeriodController) runDerivedOne(period PeriodRef, force bool) error {
	skip, err := pc.shouldSkip(period, force)
	if err != nil || skip {
		return err
	}
	return pc.DB.Transaction(func(tx *gorm.DB) error {
		start, end := period.Range()
		dailies, err := pc.Store.ListVillageDaily(tx, start, end)
		if err != nil {
			return fmt.Errorf("list daily village reports: %w", err)
		}
		return pc.Engine.Run(tx, period, leafFromVillageReports(dailies))
	})
}

func leafFromVillageReports(rows []model.LevelReportModel) map[uuid.UUID]LeafResult {
	out := make(map[uuid.UUID]LeafResult)
	for _, row := range rows {
		acc := out[row.LevelReportGeoID]
		if acc.Users == nil {
			acc.Users = make(map[string]string)
		}
		acc.Count += row.LevelReportCount
		for id, name := range row.LevelReportUserData {
			if s, ok := name.(string); ok {
				acc.Users[id] = s
			}
		}
		out[row.LevelReportGeoID] = acc
	}
	return out
}

// shouldSkip: short-circuit idempoten, laporan country untuk periode ini
// sudah ada dan force tidak diset berarti periode sudah diproses.
func (pc *PeriodController) shouldSkip(period PeriodRef, force bool) (bool, error) {
	if force {
		return false, nil
	}
	exists, err := pc.Store.Exists(pc.DB, gmodel.LevelCountry, period)
	if err != nil {
		return false, err
	}
	if exists {
		logrus.WithFields(logrus.Fields{
			"period_kind": string(period.Kind),
			"period_key":  period.Key,
		}).Info("report already generated, skipping (use force to regenerate)")
	}
	return exists, nil
}
