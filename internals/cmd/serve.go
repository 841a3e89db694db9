// internals/cmd/serve.go
package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"github.com/spf13/cobra"

	"laporanku_backend/internals/configs"
	database "laporanku_backend/internals/databases"
	scheduler "laporanku_backend/internals/features/reports/scheduler"
	middlewares "laporanku_backend/internals/middlewares"
	routes "laporanku_backend/internals/route"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Jalankan HTTP API baca-saja untuk laporan",
	RunE: func(_ *cobra.Command, _ []string) error {
		bootstrap()

		app := fiber.New(fiber.Config{
			// 🚀 JSON super cepat
			JSONEncoder:           sonic.Marshal,
			JSONDecoder:           sonic.Unmarshal,
			DisableStartupMessage: true,
			ProxyHeader:           fiber.HeaderXForwardedFor,
		})

		// ⚙️ middleware dasar + performa
		app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
		app.Use(etag.New())                                                  // 304 caching

		// 🔎 Request-ID + timing (observability ringan)
		app.Use(func(c *fiber.Ctx) error {
			id := c.Get("X-Request-ID")
			if id == "" {
				id = utils.UUID()
			}
			c.Set("X-Request-ID", id)
			c.Locals("reqid", id)
			start := time.Now()
			// HTTP timeout guard (selaras dengan statement_timeout di DB)
			ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
			defer cancel()
			c.SetUserContext(ctx)
			err := c.Next()
			dur := time.Since(start)
			log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
			return err
		})

		middlewares.SetupMiddlewares(app)

		// 🔌 DB sudah connect via bootstrap; migrasi + warm-up
		database.Migrate()
		database.WarmUpQueries()

		// ⏱ scheduler harian setelah DB siap
		if configs.SchedulerEnabled {
			scheduler.StartDailyReportScheduler(database.DB)
		}

		// ✅ Routes
		routes.SetupRoutes(app, database.DB)

		// 🔒 Keep-Alive & timeout koneksi server
		app.Server().ReadTimeout = 15 * time.Second
		app.Server().WriteTimeout = 30 * time.Second
		app.Server().IdleTimeout = 90 * time.Second

		// Start server non-blocking
		go func() {
			log.Printf("✅ Listening on %s", configs.ServerAddress)
			if err := app.Listen(configs.ServerAddress); err != nil {
				log.Fatalf("server error: %v", err)
			}
		}()

		// graceful shutdown + tutup pool DB
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.ShutdownWithContext(ctx)

		if sqlDB, err := database.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		return nil
	},
}
