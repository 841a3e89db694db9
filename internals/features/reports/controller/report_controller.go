// internals/features/reports/controller/report_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	gmodel "laporanku_backend/internals/features/geography/model"
	dto "laporanku_backend/internals/features/reports/dto"
	model "laporanku_backend/internals/features/reports/model"
	helper "laporanku_backend/internals/helpers"
)

var validate = validator.New()

// ReportController: surface baca-saja di atas tabel laporan. Generasi
// laporan TIDAK lewat HTTP, itu urusan CLI/scheduler.
type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

/* GET /api/reports/:kind/:level?period_key=...&geo_id=... */
func (h *ReportController) ListLevelReports(c *fiber.Ctx) error {
	kind, ok := model.ParsePeriodKind(c.Params("kind"))
	if !ok || kind == model.PeriodCumulative {
		return fiber.NewError(fiber.StatusBadRequest, "invalid period kind: "+c.Params("kind"))
	}
	level, ok := gmodel.ParseHierarchyLevel(c.Params("level"))
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid hierarchy level: "+c.Params("level"))
	}

	var q dto.ListLevelReportsQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(q); err != nil {
		return helper.ValidationError(c, err)
	}

	query := h.DB.
		Where("level_report_level = ?", int(level)).
		Where("level_report_period_kind = ?", string(kind)).
		Where("level_report_period_key = ?", q.PeriodKey)
	if q.GeoID != "" {
		geoID, err := uuid.Parse(q.GeoID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid geo_id")
		}
		query = query.Where("level_report_geo_id = ?", geoID)
	}

	var rows []model.LevelReportModel
	if err := query.Order("level_report_geo_name ASC").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.LevelReportResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.FromLevelReportModel(row, level.String()))
	}
	return helper.Success(c, "OK", out)
}

/* GET /api/reports/id/:id, drill-down lewat child_report_id */
func (h *ReportController) GetLevelReportByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid report id")
	}

	var row model.LevelReportModel
	if err := h.DB.First(&row, "level_report_id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "report not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	level := gmodel.HierarchyLevel(row.LevelReportLevel)
	return helper.Success(c, "OK", dto.FromLevelReportModel(row, level.String()))
}

/* GET /api/reports/cumulative/:level?geo_id=... */
func (h *ReportController) ListCumulativeReports(c *fiber.Ctx) error {
	level, ok := gmodel.ParseHierarchyLevel(c.Params("level"))
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid hierarchy level: "+c.Params("level"))
	}

	query := h.DB.Where("cumulative_report_level = ?", int(level))
	if raw := c.Query("geo_id"); raw != "" {
		geoID, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid geo_id")
		}
		query = query.Where("cumulative_report_geo_id = ?", geoID)
	}

	var rows []model.CumulativeReportModel
	if err := query.Order("cumulative_report_geo_name ASC").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.CumulativeReportResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.FromCumulativeReportModel(row, level.String()))
	}
	return helper.Success(c, "OK", out)
}
