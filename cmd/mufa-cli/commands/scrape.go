package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"mufa-backend/lib/serviceutil"
	"mufa-backend/services/league"
)

var schedulesOnly *bool

func init() {
	schedulesOnly = scrapeCmd.Flags().Bool(
		"schedules-only", false,
		"Skip team discovery and the staleness filter, just re-fetch every active team's schedule.",
	)
	scrapeCmd.AddCommand(scrapeFieldsCmd)
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--schedules-only]",
	Short: "Runs a schedule refresh against the league site.",
	Run: func(cmd *cobra.Command, args []string) {
		service := createService()
		ctx := cmd.Context()

		t1 := time.Now()
		var summary league.RunSummary
		var err error
		if *schedulesOnly {
			summary, err = service.RefreshSchedules(ctx)
		} else {
			summary, err = service.RefreshAll(ctx)
		}
		if err != nil {
			serviceutil.Fatal("refresh failed", err)
		}
		if runErr := summary.Err(); runErr != nil {
			slog.Warn("some teams failed", "err", runErr)
		}

		slog.Info("refresh complete",
			"games", summary.GamesApplied(),
			"seconds", time.Since(t1).Seconds())
	},
}

var scrapeFieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Refreshes field addresses, maps and parking details.",
	Run: func(cmd *cobra.Command, args []string) {
		service := createService()
		if err := service.RefreshFields(cmd.Context()); err != nil {
			serviceutil.Fatal("field refresh failed", err)
		}
		slog.Info("field refresh complete")
	},
}
