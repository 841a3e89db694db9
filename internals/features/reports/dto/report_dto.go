// internals/features/reports/dto/report_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "laporanku_backend/internals/features/reports/model"
)

/* ===================== REQUESTS ===================== */

// Query list laporan per periode. level & kind dari path, sisanya query.
type ListLevelReportsQuery struct {
	PeriodKey string `query:"period_key" validate:"required"`
	GeoID     string `query:"geo_id" validate:"omitempty,uuid4"`
}

/* ===================== RESPONSES ===================== */

type LevelReportResponse struct {
	LevelReportID         uuid.UUID              `json:"level_report_id"`
	LevelReportLevel      string                 `json:"level_report_level"`
	LevelReportPeriodKind string                 `json:"level_report_period_kind"`
	LevelReportPeriodKey  string                 `json:"level_report_period_key"`
	LevelReportGeoID      uuid.UUID              `json:"level_report_geo_id"`
	LevelReportGeoName    string                 `json:"level_report_geo_name"`
	LevelReportDate       *time.Time             `json:"level_report_date,omitempty"`
	LevelReportWeekStart  *time.Time             `json:"level_report_week_start,omitempty"`
	LevelReportWeekLast   *time.Time             `json:"level_report_week_last,omitempty"`
	LevelReportWeekNumber *int                   `json:"level_report_week_number,omitempty"`
	LevelReportYear       *int                   `json:"level_report_year,omitempty"`
	LevelReportMonth      *int                   `json:"level_report_month,omitempty"`
	LevelReportCount      int                    `json:"level_report_count"`
	LevelReportChildren   model.ChildSummary     `json:"level_report_children"`
	LevelReportUserData   map[string]interface{} `json:"level_report_user_data,omitempty"`
	LevelReportParentID   *uuid.UUID             `json:"level_report_parent_id,omitempty"`
}

func FromLevelReportModel(m model.LevelReportModel, levelName string) LevelReportResponse {
	return LevelReportResponse{
		LevelReportID:         m.LevelReportID,
		LevelReportLevel:      levelName,
		LevelReportPeriodKind: m.LevelReportPeriodKind,
		LevelReportPeriodKey:  m.LevelReportPeriodKey,
		LevelReportGeoID:      m.LevelReportGeoID,
		LevelReportGeoName:    m.LevelReportGeoName,
		LevelReportDate:       m.LevelReportDate,
		LevelReportWeekStart:  m.LevelReportWeekStart,
		LevelReportWeekLast:   m.LevelReportWeekLast,
		LevelReportWeekNumber: m.LevelReportWeekNumber,
		LevelReportYear:       m.LevelReportYear,
		LevelReportMonth:      m.LevelReportMonth,
		LevelReportCount:      m.LevelReportCount,
		LevelReportChildren:   m.LevelReportChildSummary.Data(),
		LevelReportUserData:   m.LevelReportUserData,
		LevelReportParentID:   m.LevelReportParentID,
	}
}

type CumulativeReportResponse struct {
	CumulativeReportID              uuid.UUID              `json:"cumulative_report_id"`
	CumulativeReportLevel           string                 `json:"cumulative_report_level"`
	CumulativeReportGeoID           uuid.UUID              `json:"cumulative_report_geo_id"`
	CumulativeReportGeoName         string                 `json:"cumulative_report_geo_name"`
	CumulativeReportTotalCount      int                    `json:"cumulative_report_total_count"`
	CumulativeReportChildren        model.ChildSummary     `json:"cumulative_report_children"`
	CumulativeReportUserData        map[string]interface{} `json:"cumulative_report_user_data,omitempty"`
	CumulativeReportParentID        *uuid.UUID             `json:"cumulative_report_parent_id,omitempty"`
	CumulativeReportLastAppliedDate *time.Time             `json:"cumulative_report_last_applied_date,omitempty"`
}

func FromCumulativeReportModel(m model.CumulativeReportModel, levelName string) CumulativeReportResponse {
	return CumulativeReportResponse{
		CumulativeReportID:              m.CumulativeReportID,
		CumulativeReportLevel:           levelName,
		CumulativeReportGeoID:           m.CumulativeReportGeoID,
		CumulativeReportGeoName:         m.CumulativeReportGeoName,
		CumulativeReportTotalCount:      m.CumulativeReportTotalCount,
		CumulativeReportChildren:        m.CumulativeReportChildSummary.Data(),
		CumulativeReportUserData:        m.CumulativeReportUserData,
		CumulativeReportParentID:        m.CumulativeReportParentID,
		CumulativeReportLastAppliedDate: m.CumulativeReportLastAppliedDate,
	}
}
