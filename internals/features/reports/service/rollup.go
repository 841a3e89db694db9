// internals/features/reports/service/rollup.go
package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	gmodel "laporanku_backend/internals/features/geography/model"
	geosvc "laporanku_backend/internals/features/geography/service"
	model "laporanku_backend/internals/features/reports/model"
)

// NodeResult: hasil tersimpan satu node pada satu level, bahan stage rollup
// berikutnya dan Parent-Link Resolver.
type NodeResult struct {
	ReportID uuid.UUID
	Count    int
}

// RollupEngine menjalankan propagasi bottom-up: village → subdistrict →
// district → state → country. Satu algoritma, diparameterkan edge hirarki.
type RollupEngine struct {
	geo   *geosvc.GeographyIndex
	store *ReportStore
}

func NewRollupEngine(geo *geosvc.GeographyIndex, store *ReportStore) *RollupEngine {
	return &RollupEngine{geo: geo, store: store}
}

// Run memproses satu periode penuh di dalam tx pemanggil: simpan laporan
// village dari hasil leaf, lalu empat stage rollup, masing-masing diikuti
// pass penautan parent_id sebelum stage berikutnya.
func (e *RollupEngine) Run(tx *gorm.DB, period PeriodRef, leaf map[uuid.UUID]LeafResult) error {
	childResults, err := e.persistVillages(tx, period, leaf)
	if err != nil {
		return fmt.Errorf("persist village reports: %w", err)
	}

	childLevel := gmodel.LevelVillage
	for {
		parentLevel, ok := childLevel.Parent()
		if !ok {
			break
		}
		parentResults, err := e.propagate(tx, period, parentLevel, childResults)
		if err != nil {
			return fmt.Errorf("rollup %s -> %s: %w", childLevel, parentLevel, err)
		}
		if err := e.linkParents(tx, childLevel, childResults, parentResults); err != nil {
			return fmt.Errorf("link %s reports to %s: %w", childLevel, parentLevel, err)
		}
		childLevel, childResults = parentLevel, parentResults
	}
	return nil
}

// persistVillages menyimpan laporan leaf. Village yang tidak muncul di leaf
// dianggap nol → baris lamanya (kalau ada) dihapus lewat DeleteExcept.
func (e *RollupEngine) persistVillages(tx *gorm.DB, period PeriodRef, leaf map[uuid.UUID]LeafResult) (map[uuid.UUID]NodeResult, error) {
	results := make(map[uuid.UUID]NodeResult, len(leaf))
	keep := make([]uuid.UUID, 0, len(leaf))

	for villageID, res := range leaf {
		node, ok := e.geo.Node(gmodel.LevelVillage, villageID)
		if !ok {
			// fakta menunjuk village yang tidak dikenal registry, data quality, bukan fatal
			logrus.WithField("village_id", villageID).Warn("leaf result references unknown village, skipped")
			continue
		}

		userData := make(datatypes.JSONMap, len(res.Users))
		for id, name := range res.Users {
			userData[id] = name
		}

		rep := newLevelReport(gmodel.LevelVillage, period, node, res.Count)
		rep.LevelReportUserData = userData
		rep.LevelReportChildSummary = datatypes.NewJSONType(model.ChildSummary{}) // leaf: tidak punya anak
		if err := e.store.Upsert(tx, gmodel.LevelVillage, period, &rep); err != nil {
			return nil, err
		}
		results[villageID] = NodeResult{ReportID: rep.LevelReportID, Count: res.Count}
		keep = append(keep, villageID)
	}

	if err := e.store.DeleteExcept(tx, gmodel.LevelVillage, period, keep); err != nil {
		return nil, err
	}
	return results, nil
}

// propagate: satu edge hirarki. SEMUA node level induk dienumerasi (bukan
// hanya yang anaknya aktif), dan child_summary memuat SETIAP anak langsung;
// anak tanpa aktivitas tercatat count 0 dengan child_report_id null.
func (e *RollupEngine) propagate(tx *gorm.DB, period PeriodRef, parentLevel gmodel.HierarchyLevel, childResults map[uuid.UUID]NodeResult) (map[uuid.UUID]NodeResult, error) {
	results := make(map[uuid.UUID]NodeResult)
	keep := make([]uuid.UUID, 0)

	for _, parent := range e.geo.NodesAt(parentLevel) {
		total := 0
		summary := model.ChildSummary{}

		for _, child := range e.geo.Children(parent.ID) {
			entry := model.ChildSummaryEntry{ID: child.ID, Name: child.Name}
			if cr, ok := childResults[child.ID]; ok {
				entry.Count = cr.Count
				reportID := cr.ReportID
				entry.ChildReportID = &reportID
				total += cr.Count
			}
			summary[child.ID.String()] = entry
		}

		// Kebijakan nol: village..state tanpa aktivitas tidak disimpan
		// (baris lama dihapus); country selalu dimaterialisasi.
		if total == 0 && parentLevel.SkipZero() {
			continue
		}

		rep := newLevelReport(parentLevel, period, parent, total)
		rep.LevelReportChildSummary = datatypes.NewJSONType(summary)
		if err := e.store.Upsert(tx, parentLevel, period, &rep); err != nil {
			return nil, err
		}
		results[parent.ID] = NodeResult{ReportID: rep.LevelReportID, Count: total}
		keep = append(keep, parent.ID)
	}

	if err := e.store.DeleteExcept(tx, parentLevel, period, keep); err != nil {
		return nil, err
	}
	return results, nil
}

// linkParents: pass kedua, stempel parent_id tiap laporan anak dengan id
// laporan induknya. Induk yang di-skip (nol) membiarkan parent_id null.
func (e *RollupEngine) linkParents(tx *gorm.DB, childLevel gmodel.HierarchyLevel, childResults, parentResults map[uuid.UUID]NodeResult) error {
	for childGeoID, cr := range childResults {
		node, ok := e.geo.Node(childLevel, childGeoID)
		if !ok || node.ParentID == uuid.Nil {
			continue
		}
		pr, ok := parentResults[node.ParentID]
		if !ok {
			continue
		}
		if err := e.store.SetParentID(tx, cr.ReportID, pr.ReportID); err != nil {
			return err
		}
	}
	return nil
}

func newLevelReport(level gmodel.HierarchyLevel, period PeriodRef, node geosvc.GeoNode, count int) model.LevelReportModel {
	return model.LevelReportModel{
		LevelReportLevel:         int(level),
		LevelReportPeriodKind:    string(period.Kind),
		LevelReportPeriodKey:     period.Key,
		LevelReportGeoID:         node.ID,
		LevelReportGeoName:       node.Name,
		LevelReportDate:          period.Date,
		LevelReportWeekStart:     period.WeekStart,
		LevelReportWeekLast:      period.WeekLast,
		LevelReportWeekNumber:    period.WeekNumber,
		LevelReportYear:          period.Year,
		LevelReportMonth:         period.Month,
		LevelReportMonthLastDate: period.MonthLastDate,
		LevelReportCount:         count,
	}
}
