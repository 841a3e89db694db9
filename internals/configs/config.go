package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	ServerAddress    string
	SchedulerEnabled bool
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	ServerAddress = GetEnv("SERVER_ADDRESS", ":8080")
	SchedulerEnabled = GetEnv("REPORT_SCHEDULER_ENABLED", "false") == "true"

	if GetEnv("DB_HOST") == "" {
		log.Println("❌ DB_HOST belum diset!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
