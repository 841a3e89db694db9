// internals/features/reports/service/report_store.go
package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	gmodel "laporanku_backend/internals/features/geography/model"
	model "laporanku_backend/internals/features/reports/model"
)

// ReportStore membungkus akses tabel level_reports. Semua method menerima
// tx supaya bisa ikut unit of work per periode milik controller.
type ReportStore struct{}

func NewReportStore() *ReportStore { return &ReportStore{} }

func periodScope(tx *gorm.DB, level gmodel.HierarchyLevel, period PeriodRef) *gorm.DB {
	return tx.
		Where("level_report_level = ?", int(level)).
		Where("level_report_period_kind = ?", string(period.Kind)).
		Where("level_report_period_key = ?", period.Key)
}

// Upsert: satu baris per (level, period, geo), kalau sudah ada, baris lama
// dipakai ulang (ID dipertahankan) lalu ditimpa. ID hasil akhirnya ditulis
// balik ke rep, jadi pemanggil selalu pegang ID yang tersimpan.
func (s *ReportStore) Upsert(tx *gorm.DB, level gmodel.HierarchyLevel, period PeriodRef, rep *model.LevelReportModel) error {
	var existing model.LevelReportModel
	err := periodScope(tx, level, period).
		Where("level_report_geo_id = ?", rep.LevelReportGeoID).
		First(&existing).Error
	switch {
	case err == nil:
		rep.LevelReportID = existing.LevelReportID
		rep.LevelReportCreatedAt = existing.LevelReportCreatedAt
		now := time.Now().UTC()
		rep.LevelReportUpdatedAt = &now
		return tx.Save(rep).Error
	case err == gorm.ErrRecordNotFound:
		if rep.LevelReportID == uuid.Nil {
			rep.LevelReportID = uuid.New()
		}
		rep.LevelReportCreatedAt = time.Now().UTC()
		return tx.Create(rep).Error
	default:
		return err
	}
}

// DeleteExcept menghapus semua laporan (level, period) yang geo id-nya TIDAK
// ada di keep, satu query per level per periode. Dipakai untuk kebijakan
// skip-zero: wilayah yang turun ke nol kehilangan baris lamanya.
func (s *ReportStore) DeleteExcept(tx *gorm.DB, level gmodel.HierarchyLevel, period PeriodRef, keep []uuid.UUID) error {
	q := periodScope(tx, level, period)
	if len(keep) > 0 {
		q = q.Where("level_report_geo_id NOT IN ?", keep)
	}
	return q.Delete(&model.LevelReportModel{}).Error
}

// Exists: sudah adakah laporan (level, period) untuk geo manapun? Dipakai
// short-circuit idempoten di level country.
func (s *ReportStore) Exists(tx *gorm.DB, level gmodel.HierarchyLevel, period PeriodRef) (bool, error) {
	var n int64
	if err := periodScope(tx, level, period).
		Model(&model.LevelReportModel{}).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetParentID menstempel back-link induk (pass kedua Parent-Link Resolver).
func (s *ReportStore) SetParentID(tx *gorm.DB, reportID, parentID uuid.UUID) error {
	return tx.Model(&model.LevelReportModel{}).
		Where("level_report_id = ?", reportID).
		Update("level_report_parent_id", parentID).Error
}

// ListVillageDaily mengambil laporan harian village pada rentang tanggal:
// bahan baku agregasi weekly/monthly (bukan fakta mentah).
func (s *ReportStore) ListVillageDaily(tx *gorm.DB, start, end time.Time) ([]model.LevelReportModel, error) {
	var rows []model.LevelReportModel
	err := tx.
		Where("level_report_level = ?", int(gmodel.LevelVillage)).
		Where("level_report_period_kind = ?", string(model.PeriodDaily)).
		Where("level_report_date BETWEEN ? AND ?", DateOnly(start), DateOnly(end)).
		Find(&rows).Error
	return rows, err
}

// ListForPeriod: semua laporan satu (level, period), untuk API & test.
func (s *ReportStore) ListForPeriod(tx *gorm.DB, level gmodel.HierarchyLevel, period PeriodRef) ([]model.LevelReportModel, error) {
	var rows []model.LevelReportModel
	err := periodScope(tx, level, period).Find(&rows).Error
	return rows, err
}

// GetByGeo mengambil satu laporan (level, period, geo).
func (s *ReportStore) GetByGeo(tx *gorm.DB, level gmodel.HierarchyLevel, period PeriodRef, geoID uuid.UUID) (*model.LevelReportModel, error) {
	var row model.LevelReportModel
	err := periodScope(tx, level, period).
		Where("level_report_geo_id = ?", geoID).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
