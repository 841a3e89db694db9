// internals/features/reports/model/level_report_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* ===================== PERIOD KIND ===================== */

type PeriodKind string

const (
	PeriodDaily      PeriodKind = "daily"
	PeriodWeekly     PeriodKind = "weekly"
	PeriodMonthly    PeriodKind = "monthly"
	PeriodCumulative PeriodKind = "cumulative" // disimpan di tabel cumulative_reports
)

func ParsePeriodKind(s string) (PeriodKind, bool) {
	switch PeriodKind(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodCumulative:
		return PeriodKind(s), true
	default:
		return "", false
	}
}

/* ===================== CHILD SUMMARY ===================== */

// ChildSummaryEntry: snapshot kontribusi satu anak langsung. Ini snapshot
// pada saat laporan induk dihitung, BUKAN referensi live, boleh stale
// terhadap laporan anak yang dihasilkan run lain (eventual consistency).
type ChildSummaryEntry struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Count         int        `json:"count"`
	ChildReportID *uuid.UUID `json:"child_report_id"` // null bila anak tidak punya laporan tersimpan
}

// ChildSummary di-key dengan geo id anak (string, supaya stabil sebagai key JSON).
type ChildSummary map[string]ChildSummaryEntry

/* ===================== LEVEL REPORT ===================== */

// LevelReportModel: satu baris per (level, period_kind, period_key, geo_id).
// Satu tabel untuk semua level × {daily, weekly, monthly}; perilaku per level
// (skip-zero dsb.) dinyatakan lewat konfigurasi HierarchyLevel, bukan lima
// tabel kembar.
type LevelReportModel struct {
	LevelReportID uuid.UUID `gorm:"column:level_report_id;type:uuid;primaryKey" json:"level_report_id"`

	LevelReportLevel      int    `gorm:"column:level_report_level;not null;uniqueIndex:uq_level_reports_period_geo" json:"level_report_level"`
	LevelReportPeriodKind string `gorm:"column:level_report_period_kind;type:varchar(10);not null;uniqueIndex:uq_level_reports_period_geo" json:"level_report_period_kind"`
	// Kunci periode kanonik: "2006-01-02" (daily), "2006-W02" (weekly), "2006-01" (monthly).
	LevelReportPeriodKey string    `gorm:"column:level_report_period_key;type:varchar(12);not null;uniqueIndex:uq_level_reports_period_geo;index" json:"level_report_period_key"`
	LevelReportGeoID     uuid.UUID `gorm:"column:level_report_geo_id;type:uuid;not null;uniqueIndex:uq_level_reports_period_geo" json:"level_report_geo_id"`
	LevelReportGeoName   string    `gorm:"column:level_report_geo_name;type:varchar(100);not null" json:"level_report_geo_name"`

	// Identitas periode deskriptif (subset terisi sesuai period_kind).
	LevelReportDate          *time.Time `gorm:"column:level_report_date;type:date;index" json:"level_report_date,omitempty"`
	LevelReportWeekStart     *time.Time `gorm:"column:level_report_week_start;type:date" json:"level_report_week_start,omitempty"`
	LevelReportWeekLast      *time.Time `gorm:"column:level_report_week_last;type:date" json:"level_report_week_last,omitempty"`
	LevelReportWeekNumber    *int       `gorm:"column:level_report_week_number" json:"level_report_week_number,omitempty"`
	LevelReportYear          *int       `gorm:"column:level_report_year" json:"level_report_year,omitempty"`
	LevelReportMonth         *int       `gorm:"column:level_report_month" json:"level_report_month,omitempty"`
	LevelReportMonthLastDate *time.Time `gorm:"column:level_report_month_last_date;type:date" json:"level_report_month_last_date,omitempty"`

	LevelReportCount int `gorm:"column:level_report_count;not null;default:0" json:"level_report_count"`

	// Snapshot SEMUA anak langsung (termasuk yang count 0). Kosong di level village.
	LevelReportChildSummary datatypes.JSONType[ChildSummary] `gorm:"column:level_report_child_summary;type:jsonb" json:"level_report_child_summary"`
	// Hanya level village: member id → nama tampil, untuk audit/drill-down.
	LevelReportUserData datatypes.JSONMap `gorm:"column:level_report_user_data;type:jsonb" json:"level_report_user_data,omitempty"`

	// Back-link ke laporan induk periode yang sama; diisi pass kedua,
	// tetap null bila induk di-skip karena nol.
	LevelReportParentID *uuid.UUID `gorm:"column:level_report_parent_id;type:uuid;index" json:"level_report_parent_id,omitempty"`

	LevelReportCreatedAt time.Time  `gorm:"column:level_report_created_at;not null;default:CURRENT_TIMESTAMP" json:"level_report_created_at"`
	LevelReportUpdatedAt *time.Time `gorm:"column:level_report_updated_at" json:"level_report_updated_at,omitempty"`
}

func (LevelReportModel) TableName() string { return "level_reports" }
