package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	geosvc "laporanku_backend/internals/features/geography/service"
	membersvc "laporanku_backend/internals/features/members/service"
	reportsvc "laporanku_backend/internals/features/reports/service"
)

// StartDailyReportScheduler menjalankan generasi laporan harian (untuk
// kemarin) sekali tiap interval. Idempoten: tanggal yang sudah diproses
// akan di-skip oleh controller.
func StartDailyReportScheduler(db *gorm.DB) {
	go func() {
		// interval dari env (default: 24 jam)
		intervalHours := 24
		if val := os.Getenv("REPORT_SCHEDULER_INTERVAL_HOURS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervalHours = parsed
			}
		}

		for {
			log.Println("[REPORT] Menjalankan generasi laporan harian...")

			geo, err := geosvc.LoadGeographyIndex(db)
			if err != nil {
				log.Printf("[REPORT ERROR] Gagal memuat index wilayah: %v", err)
			} else {
				pc := reportsvc.NewPeriodController(db, geo, membersvc.NewActivityFactSource())
				yesterday := reportsvc.DateOnly(time.Now()).AddDate(0, 0, -1)
				opts := reportsvc.RunOptions{Date: &yesterday}
				if err := pc.RunDaily(context.Background(), opts); err != nil {
					log.Printf("[REPORT ERROR] Generasi laporan harian gagal: %v", err)
				} else {
					log.Printf("[REPORT] Laporan harian %s selesai", yesterday.Format("2006-01-02"))
				}
			}

			time.Sleep(time.Duration(intervalHours) * time.Hour)
		}
	}()
}
