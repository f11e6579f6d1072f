package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"mufa-backend/lib/serviceutil"
)

func init() {
	forceRefreshCmd.AddCommand(forceRefreshEnableCmd)
	forceRefreshCmd.AddCommand(forceRefreshDisableCmd)
	forceRefreshCmd.AddCommand(forceRefreshStatusCmd)
	rootCmd.AddCommand(forceRefreshCmd)
}

var forceRefreshCmd = &cobra.Command{
	Use:   "force-refresh",
	Short: "Manages the flag that makes the next refresh ignore staleness and rescrape everything.",
}

var forceRefreshEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Rescrape every team on the next refresh.",
	Run: func(cmd *cobra.Command, args []string) {
		service := createService()
		if err := service.SetForceRefresh(cmd.Context(), true); err != nil {
			serviceutil.Fatal("enable force refresh", err)
		}
	},
}

var forceRefreshDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Clear the force refresh flag without running a scrape.",
	Run: func(cmd *cobra.Command, args []string) {
		service := createService()
		if err := service.SetForceRefresh(cmd.Context(), false); err != nil {
			serviceutil.Fatal("disable force refresh", err)
		}
	},
}

var forceRefreshStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current force refresh flag and last full scrape time.",
	Run: func(cmd *cobra.Command, args []string) {
		service := createService()
		status, err := service.GetForceRefreshStatus(cmd.Context())
		if err != nil {
			serviceutil.Fatal("read force refresh status", err)
		}

		fmt.Printf("season: %s\n", status.SeasonID)
		fmt.Printf("force refresh: %v\n", status.Enabled)
		if status.LastFullScrape.IsZero() {
			fmt.Println("last full scrape: never")
		} else {
			fmt.Printf("last full scrape: %s\n", status.LastFullScrape.Format("2006-01-02 15:04:05 MST"))
		}
	},
}
