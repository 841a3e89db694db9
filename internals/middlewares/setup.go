package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"laporanku_backend/internals/configs"
)

// SetupMiddlewares memasang middleware dasar aplikasi.
func SetupMiddlewares(app *fiber.App) {
	// tangkap panic supaya server tidak mati
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	origins := configs.GetEnv("CORS_ORIGINS", "*")
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.TrimSpace(origins),
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Format:     "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency}\n",
	}))
}
