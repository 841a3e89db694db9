// internals/cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laporanku_backend/internals/configs"
	database "laporanku_backend/internals/databases"
)

var rootCmd = &cobra.Command{
	Use:           "laporanku",
	Short:         "Layanan laporan keanggotaan berjenjang (country → state → district → subdistrict → village)",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute: exit code 0 saat sukses, non-nol dengan pesan terbaca saat
// validasi gagal (urutan tanggal salah, end di masa depan, fakta kosong).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
}

// bootstrap menyiapkan env + koneksi DB; dipanggil tiap subcommand.
func bootstrap() {
	configs.LoadEnv()
	database.ConnectDB()
	database.TunePool()
}
