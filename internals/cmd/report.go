// internals/cmd/report.go
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	database "laporanku_backend/internals/databases"
	geosvc "laporanku_backend/internals/features/geography/service"
	membersvc "laporanku_backend/internals/features/members/service"
	reportsvc "laporanku_backend/internals/features/reports/service"
)

var (
	flagStartDate string
	flagEndDate   string
	flagDate      string
	flagForce     bool
	flagClean     bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate laporan agregat (daily|weekly|monthly|cumulative)",
}

func init() {
	reportCmd.PersistentFlags().StringVar(&flagStartDate, "start-date", "", "tanggal awal range (YYYY-MM-DD)")
	reportCmd.PersistentFlags().StringVar(&flagEndDate, "end-date", "", "tanggal akhir range (YYYY-MM-DD)")

	dailyCmd.Flags().StringVar(&flagDate, "date", "", "satu tanggal saja (YYYY-MM-DD)")
	dailyCmd.Flags().BoolVar(&flagForce, "force", false, "regenerate walau laporan sudah ada")
	weeklyCmd.Flags().BoolVar(&flagForce, "force", false, "regenerate walau laporan sudah ada")
	monthlyCmd.Flags().BoolVar(&flagForce, "force", false, "regenerate walau laporan sudah ada")
	cumulativeCmd.Flags().BoolVar(&flagClean, "clean", false, "cabut kontribusi range dulu sebelum apply ulang")

	reportCmd.AddCommand(dailyCmd)
	reportCmd.AddCommand(weeklyCmd)
	reportCmd.AddCommand(monthlyCmd)
	reportCmd.AddCommand(cumulativeCmd)
}

func parseDateFlag(name, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, fmt.Errorf("--%s: format tanggal harus YYYY-MM-DD, dapat %q", name, v)
	}
	d := reportsvc.DateOnly(t)
	return &d, nil
}

func runOptionsFromFlags() (reportsvc.RunOptions, error) {
	var opts reportsvc.RunOptions
	var err error
	if opts.Date, err = parseDateFlag("date", flagDate); err != nil {
		return opts, err
	}
	if opts.StartDate, err = parseDateFlag("start-date", flagStartDate); err != nil {
		return opts, err
	}
	if opts.EndDate, err = parseDateFlag("end-date", flagEndDate); err != nil {
		return opts, err
	}
	opts.Force = flagForce
	return opts, nil
}

// Laporan daily/weekly/monthly dihitung dari aktivitas member;
// cumulative dihitung dari tanggal bergabung (keanggotaan).
func newPeriodController() (*reportsvc.PeriodController, error) {
	bootstrap()
	geo, err := geosvc.LoadGeographyIndex(database.DB)
	if err != nil {
		return nil, fmt.Errorf("load hirarki wilayah: %w", err)
	}
	return reportsvc.NewPeriodController(database.DB, geo, membersvc.NewActivityFactSource()), nil
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Laporan harian per desa → negara",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := runOptionsFromFlags()
		if err != nil {
			return err
		}
		pc, err := newPeriodController()
		if err != nil {
			return err
		}
		return pc.RunDaily(cmd.Context(), opts)
	},
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Laporan mingguan (agregasi dari laporan harian desa)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := runOptionsFromFlags()
		if err != nil {
			return err
		}
		pc, err := newPeriodController()
		if err != nil {
			return err
		}
		return pc.RunWeekly(cmd.Context(), opts)
	},
}

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Laporan bulanan (agregasi dari laporan harian desa)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := runOptionsFromFlags()
		if err != nil {
			return err
		}
		pc, err := newPeriodController()
		if err != nil {
			return err
		}
		return pc.RunMonthly(cmd.Context(), opts)
	},
}

var cumulativeCmd = &cobra.Command{
	Use:   "cumulative",
	Short: "Running total keanggotaan (delta bertanda + ledger)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		start, err := parseDateFlag("start-date", flagStartDate)
		if err != nil {
			return err
		}
		end, err := parseDateFlag("end-date", flagEndDate)
		if err != nil {
			return err
		}

		bootstrap()
		geo, err := geosvc.LoadGeographyIndex(database.DB)
		if err != nil {
			return fmt.Errorf("load hirarki wilayah: %w", err)
		}
		eng := reportsvc.NewCumulativeEngine(database.DB, geo, membersvc.NewMembershipFactSource())
		return eng.Run(cmd.Context(), reportsvc.CumulativeOptions{
			StartDate: start,
			EndDate:   end,
			Clean:     flagClean,
		})
	},
}
