// internals/features/reports/route/report_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"laporanku_backend/internals/features/reports/controller"
)

func ReportRoutes(router fiber.Router, db *gorm.DB) {
	h := controller.NewReportController(db)

	reports := router.Group("/reports")
	{
		reports.Get("/id/:id", h.GetLevelReportByID)
		reports.Get("/cumulative/:level", h.ListCumulativeReports)
		reports.Get("/:kind/:level", h.ListLevelReports)
	}
}
