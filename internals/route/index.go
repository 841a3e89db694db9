// file: internals/route/index.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportroute "laporanku_backend/internals/features/reports/route"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	BaseRoutes(app, db)

	api := app.Group("/api")
	reportroute.ReportRoutes(api, db)
}
