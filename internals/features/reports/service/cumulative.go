// internals/features/reports/service/cumulative.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	gmodel "laporanku_backend/internals/features/geography/model"
	geosvc "laporanku_backend/internals/features/geography/service"
	membersvc "laporanku_backend/internals/features/members/service"
	model "laporanku_backend/internals/features/reports/model"
)

// Kunci advisory lock Postgres untuk serialisasi run kumulatif, clean+add
// berebut running total yang sama, jadi hanya boleh satu writer. No-op di
// dialect lain (rig test sqlite jalan single-threaded).
const cumulativeLockKey int64 = 7640211

// CumulativeOptions: kontrak flag CLI mode kumulatif.
type CumulativeOptions struct {
	StartDate *time.Time
	EndDate   *time.Time
	Clean     bool
}

// CumulativeEngine menerapkan delta bertanda terhadap running total per
// (level, geo), BUKAN recompute from scratch. Setiap apply dicatat di
// ledger; memproses ulang tanggal yang sama tanpa clean akan double-count
// (bahaya terdokumentasi; clean wajib jalan dan selesai sebelum add).
type CumulativeEngine struct {
	DB    *gorm.DB
	Geo   *geosvc.GeographyIndex
	Facts membersvc.FactSource

	Now func() time.Time
}

func NewCumulativeEngine(db *gorm.DB, geo *geosvc.GeographyIndex, facts membersvc.FactSource) *CumulativeEngine {
	return &CumulativeEngine{DB: db, Geo: geo, Facts: facts, Now: time.Now}
}

func (e *CumulativeEngine) Run(ctx context.Context, opts CumulativeOptions) error {
	today := DateOnly(e.Now())
	yesterday := today.AddDate(0, 0, -1)

	derivedStart := false
	var start time.Time
	if opts.StartDate != nil {
		start = DateOnly(*opts.StartDate)
	} else {
		derivedStart = true
		last, err := e.lastAppliedDate()
		if err != nil {
			return err
		}
		if last != nil {
			start = last.AddDate(0, 0, 1)
		} else {
			first, err := e.Facts.FirstFactDate(ctx, e.DB)
			if err != nil {
				return fmt.Errorf("resolve first fact date: %w", err)
			}
			if first == nil {
				return errors.New("fact source is empty; nothing to accumulate")
			}
			start = DateOnly(*first)
		}
	}

	end := yesterday
	if opts.EndDate != nil {
		end = DateOnly(*opts.EndDate)
	}

	if derivedStart && start.After(end) {
		logrus.Info("cumulative totals already up to date")
		return nil
	}
	if err := ValidateRange(start, end, today); err != nil {
		return err
	}

	if opts.Clean {
		// clean dan add untuk range yang sama adalah pasangan: gagal di
		// clean membatalkan SELURUH range, bukan lanjut ke add.
		if err := e.clean(ctx, start, end); err != nil {
			return fmt.Errorf("cumulative clean pass aborted, range not processed: %w", err)
		}
	}

	var applyErr error
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.applyDay(ctx, d); err != nil {
			logrus.WithError(err).
				WithField("date", d.Format("2006-01-02")).
				Error("cumulative apply failed; continuing with next date")
			// setelah clean, hari yang gagal berarti kontribusinya sudah
			// dicabut tapi belum terpasang ulang; run harus keluar non-nol
			// supaya operator tahu range ini perlu diproses ulang
			if opts.Clean && applyErr == nil {
				applyErr = fmt.Errorf("apply %s after clean: %w", d.Format("2006-01-02"), err)
			}
		}
	}
	return applyErr
}

// lastAppliedDate: tanggal entri ledger positif terakhir → default start
// run berikutnya adalah sehari setelahnya.
func (e *CumulativeEngine) lastAppliedDate() (*time.Time, error) {
	var entry model.CumulativeLedgerModel
	err := e.DB.
		Where("cumulative_ledger_delta > 0").
		Order("cumulative_ledger_date DESC").
		First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := DateOnly(entry.CumulativeLedgerDate)
	return &d, nil
}

/* ===================== CLEAN PASS ===================== */

// clean mengurangi kontribusi fakta yang tanggalnya jatuh di range dari
// running total, SATU transaksi untuk seluruh range. Entri ledger negatif
// ditulis per (village, tanggal) supaya pembalikan bisa diaudit.
func (e *CumulativeEngine) clean(ctx context.Context, start, end time.Time) error {
	return e.DB.Transaction(func(tx *gorm.DB) error {
		if err := acquireCumulativeLock(tx); err != nil {
			return err
		}

		facts, err := e.Facts.FetchFacts(ctx, tx, start, end)
		if err != nil {
			return fmt.Errorf("fetch facts: %w", err)
		}

		byDate := make(map[time.Time][]membersvc.Fact)
		for _, f := range facts {
			d := DateOnly(f.Date)
			byDate[d] = append(byDate[d], f)
		}

		for d, dayFacts := range byDate {
			for villageID, res := range AggregateLeaf(dayFacts) {
				row, err := getCumulative(tx, gmodel.LevelVillage, villageID)
				if err != nil {
					return err
				}
				if row == nil {
					logrus.WithField("village_id", villageID).
						Warn("clean: no cumulative row for village, nothing to subtract")
					continue
				}

				row.CumulativeReportTotalCount -= res.Count
				if row.CumulativeReportTotalCount < 0 {
					// anti-minus: range ini tidak pernah di-apply utuh
					logrus.WithField("village_id", villageID).
						Warn("clean drove total below zero, clamping")
					row.CumulativeReportTotalCount = 0
				}
				for memberID := range res.Users {
					delete(row.CumulativeReportUserData, memberID)
				}
				if err := saveCumulative(tx, row); err != nil {
					return err
				}
				if err := writeLedger(tx, villageID, d, -res.Count, res.Users); err != nil {
					return err
				}
			}
		}

		return e.recomputeAncestors(tx, nil)
	})
}

/* ===================== ADD PASS ===================== */

// applyDay menerapkan delta positif satu hari, satu transaksi per tanggal.
func (e *CumulativeEngine) applyDay(ctx context.Context, d time.Time) error {
	return e.DB.Transaction(func(tx *gorm.DB) error {
		if err := acquireCumulativeLock(tx); err != nil {
			return err
		}

		facts, err := e.Facts.FetchFacts(ctx, tx, d, d)
		if err != nil {
			return fmt.Errorf("fetch facts: %w", err)
		}
		leaf := AggregateLeaf(facts)
		if len(leaf) == 0 {
			return nil
		}

		for villageID, res := range leaf {
			node, ok := e.Geo.Node(gmodel.LevelVillage, villageID)
			if !ok {
				logrus.WithField("village_id", villageID).
					Warn("cumulative apply references unknown village, skipped")
				continue
			}

			row, err := ensureCumulative(tx, gmodel.LevelVillage, node.ID, node.Name)
			if err != nil {
				return err
			}
			row.CumulativeReportTotalCount += res.Count
			if row.CumulativeReportUserData == nil {
				row.CumulativeReportUserData = datatypes.JSONMap{}
			}
			for id, name := range res.Users {
				row.CumulativeReportUserData[id] = name
			}
			applied := DateOnly(d)
			row.CumulativeReportLastAppliedDate = &applied
			if err := saveCumulative(tx, row); err != nil {
				return err
			}
			if err := writeLedger(tx, villageID, d, res.Count, res.Users); err != nil {
				return err
			}
		}

		asOf := DateOnly(d)
		return e.recomputeAncestors(tx, &asOf)
	})
}

/* ===================== ANCESTOR REBUILD ===================== */

// recomputeAncestors menurunkan ulang total level subdistrict..country dari
// baris village yang sudah mutakhir, membangun ulang child_summary, menata
// parent link, dan menerapkan kebijakan nol (hapus baris 0 di bawah country;
// country selalu ada).
func (e *CumulativeEngine) recomputeAncestors(tx *gorm.DB, asOf *time.Time) error {
	childRows, err := loadCumulativeLevel(tx, gmodel.LevelVillage)
	if err != nil {
		return err
	}

	// baris village yang sudah turun ke nol ikut kebijakan skip-zero
	keepVillages := make([]uuid.UUID, 0, len(childRows))
	for geoID, row := range childRows {
		if row.CumulativeReportTotalCount == 0 {
			delete(childRows, geoID)
			continue
		}
		keepVillages = append(keepVillages, geoID)
	}
	if err := deleteCumulativeExcept(tx, gmodel.LevelVillage, keepVillages); err != nil {
		return err
	}

	childLevel := gmodel.LevelVillage
	for {
		parentLevel, ok := childLevel.Parent()
		if !ok {
			break
		}

		parentRows := make(map[uuid.UUID]*model.CumulativeReportModel)
		keep := make([]uuid.UUID, 0)

		for _, parent := range e.Geo.NodesAt(parentLevel) {
			total := 0
			summary := model.ChildSummary{}
			for _, child := range e.Geo.Children(parent.ID) {
				entry := model.ChildSummaryEntry{ID: child.ID, Name: child.Name}
				if crow, ok := childRows[child.ID]; ok {
					entry.Count = crow.CumulativeReportTotalCount
					reportID := crow.CumulativeReportID
					entry.ChildReportID = &reportID
					total += crow.CumulativeReportTotalCount
				}
				summary[child.ID.String()] = entry
			}

			if total == 0 && parentLevel.SkipZero() {
				continue
			}

			row, err := ensureCumulative(tx, parentLevel, parent.ID, parent.Name)
			if err != nil {
				return err
			}
			row.CumulativeReportTotalCount = total
			row.CumulativeReportChildSummary = datatypes.NewJSONType(summary)
			if asOf != nil {
				row.CumulativeReportLastAppliedDate = asOf
			}
			if err := saveCumulative(tx, row); err != nil {
				return err
			}
			parentRows[parent.ID] = row
			keep = append(keep, parent.ID)
		}

		if err := deleteCumulativeExcept(tx, parentLevel, keep); err != nil {
			return err
		}

		// tautkan anak ke induknya
		for geoID, crow := range childRows {
			node, ok := e.Geo.Node(childLevel, geoID)
			if !ok || node.ParentID == uuid.Nil {
				continue
			}
			prow, ok := parentRows[node.ParentID]
			if !ok {
				continue
			}
			if err := tx.Model(&model.CumulativeReportModel{}).
				Where("cumulative_report_id = ?", crow.CumulativeReportID).
				Update("cumulative_report_parent_id", prow.CumulativeReportID).Error; err != nil {
				return err
			}
		}

		childLevel, childRows = parentLevel, parentRows
	}
	return nil
}

/* ===================== ROW HELPERS ===================== */

func acquireCumulativeLock(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", cumulativeLockKey).Error
}

func loadCumulativeLevel(tx *gorm.DB, level gmodel.HierarchyLevel) (map[uuid.UUID]*model.CumulativeReportModel, error) {
	var rows []model.CumulativeReportModel
	if err := tx.
		Where("cumulative_report_level = ?", int(level)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*model.CumulativeReportModel, len(rows))
	for i := range rows {
		out[rows[i].CumulativeReportGeoID] = &rows[i]
	}
	return out, nil
}

func getCumulative(tx *gorm.DB, level gmodel.HierarchyLevel, geoID uuid.UUID) (*model.CumulativeReportModel, error) {
	var row model.CumulativeReportModel
	err := tx.
		Where("cumulative_report_level = ?", int(level)).
		Where("cumulative_report_geo_id = ?", geoID).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ensureCumulative: pastikan baris ada (idempotent), lalu ambil.
func ensureCumulative(tx *gorm.DB, level gmodel.HierarchyLevel, geoID uuid.UUID, geoName string) (*model.CumulativeReportModel, error) {
	rec := model.CumulativeReportModel{
		CumulativeReportID:      uuid.New(),
		CumulativeReportLevel:   int(level),
		CumulativeReportGeoID:   geoID,
		CumulativeReportGeoName: geoName,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "cumulative_report_level"},
			{Name: "cumulative_report_geo_id"},
		},
		DoNothing: true,
	}).Create(&rec).Error; err != nil {
		return nil, err
	}
	return getCumulativeMust(tx, level, geoID)
}

func getCumulativeMust(tx *gorm.DB, level gmodel.HierarchyLevel, geoID uuid.UUID) (*model.CumulativeReportModel, error) {
	row, err := getCumulative(tx, level, geoID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("cumulative row missing after ensure (level %s, geo %s)", level, geoID)
	}
	return row, nil
}

func saveCumulative(tx *gorm.DB, row *model.CumulativeReportModel) error {
	now := time.Now().UTC()
	row.CumulativeReportUpdatedAt = &now
	return tx.Save(row).Error
}

func deleteCumulativeExcept(tx *gorm.DB, level gmodel.HierarchyLevel, keep []uuid.UUID) error {
	q := tx.Where("cumulative_report_level = ?", int(level))
	if len(keep) > 0 {
		q = q.Where("cumulative_report_geo_id NOT IN ?", keep)
	}
	return q.Delete(&model.CumulativeReportModel{}).Error
}

func writeLedger(tx *gorm.DB, villageID uuid.UUID, d time.Time, delta int, users map[string]string) error {
	ids := make(datatypes.JSONSlice[string], 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	entry := model.CumulativeLedgerModel{
		CumulativeLedgerID:        uuid.New(),
		CumulativeLedgerVillageID: villageID,
		CumulativeLedgerDate:      DateOnly(d),
		CumulativeLedgerDelta:     delta,
		CumulativeLedgerMemberIDs: ids,
		CumulativeLedgerAppliedAt: time.Now().UTC(),
	}
	return tx.Create(&entry).Error
}
