// internals/features/reports/model/cumulative_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CumulativeReportModel: running total per (level, geo_id), TANPA kunci
// periode. Ini bukan snapshot point-in-time, totalnya bergerak lewat delta
// bertanda (lihat ledger). Memproses tanggal yang sama dua kali tanpa clean
// akan double-count; urutan clean → add dijaga oleh engine.
type CumulativeReportModel struct {
	CumulativeReportID uuid.UUID `gorm:"column:cumulative_report_id;type:uuid;primaryKey" json:"cumulative_report_id"`

	CumulativeReportLevel   int       `gorm:"column:cumulative_report_level;not null;uniqueIndex:uq_cumulative_reports_geo" json:"cumulative_report_level"`
	CumulativeReportGeoID   uuid.UUID `gorm:"column:cumulative_report_geo_id;type:uuid;not null;uniqueIndex:uq_cumulative_reports_geo" json:"cumulative_report_geo_id"`
	CumulativeReportGeoName string    `gorm:"column:cumulative_report_geo_name;type:varchar(100);not null" json:"cumulative_report_geo_name"`

	CumulativeReportTotalCount int `gorm:"column:cumulative_report_total_count;not null;default:0" json:"cumulative_report_total_count"`

	CumulativeReportChildSummary datatypes.JSONType[ChildSummary] `gorm:"column:cumulative_report_child_summary;type:jsonb" json:"cumulative_report_child_summary"`
	// Hanya level village.
	CumulativeReportUserData datatypes.JSONMap `gorm:"column:cumulative_report_user_data;type:jsonb" json:"cumulative_report_user_data,omitempty"`

	CumulativeReportParentID *uuid.UUID `gorm:"column:cumulative_report_parent_id;type:uuid;index" json:"cumulative_report_parent_id,omitempty"`

	CumulativeReportLastAppliedDate *time.Time `gorm:"column:cumulative_report_last_applied_date;type:date" json:"cumulative_report_last_applied_date,omitempty"`

	CumulativeReportCreatedAt time.Time  `gorm:"column:cumulative_report_created_at;not null;default:CURRENT_TIMESTAMP" json:"cumulative_report_created_at"`
	CumulativeReportUpdatedAt *time.Time `gorm:"column:cumulative_report_updated_at" json:"cumulative_report_updated_at,omitempty"`
}

func (CumulativeReportModel) TableName() string { return "cumulative_reports" }

// CumulativeLedgerModel: jurnal delta eksplisit per (village, tanggal).
// Setiap apply/clean meninggalkan entri bertanda sehingga clean/reapply bisa
// diaudit, dan max(tanggal) entri positif jadi dasar default start range
// berikutnya.
type CumulativeLedgerModel struct {
	CumulativeLedgerID        uuid.UUID `gorm:"column:cumulative_ledger_id;type:uuid;primaryKey" json:"cumulative_ledger_id"`
	CumulativeLedgerVillageID uuid.UUID `gorm:"column:cumulative_ledger_village_id;type:uuid;not null;index" json:"cumulative_ledger_village_id"`
	CumulativeLedgerDate      time.Time `gorm:"column:cumulative_ledger_date;type:date;not null;index" json:"cumulative_ledger_date"`
	CumulativeLedgerDelta     int       `gorm:"column:cumulative_ledger_delta;not null" json:"cumulative_ledger_delta"`

	CumulativeLedgerMemberIDs datatypes.JSONSlice[string] `gorm:"column:cumulative_ledger_member_ids;type:jsonb" json:"cumulative_ledger_member_ids"`

	CumulativeLedgerAppliedAt time.Time `gorm:"column:cumulative_ledger_applied_at;not null;default:CURRENT_TIMESTAMP" json:"cumulative_ledger_applied_at"`
}

func (CumulativeLedgerModel) TableName() string { return "cumulative_report_ledger" }
