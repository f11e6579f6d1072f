package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mufa-backend/lib/serviceutil"
	"mufa-backend/lib/timezone"
)

var statusDivision *string

func init() {
	statusDivision = statusCmd.Flags().String("division", "", "Limit the refresh lookup to one division.")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows data freshness and whether the configured season still matches the site.",
	Run: func(cmd *cobra.Command, args []string) {
		service := createService()
		ctx := cmd.Context()

		season, err := service.GetSeasonStatus(ctx)
		if err != nil {
			serviceutil.Fatal("read season status", err)
		}
		fmt.Printf("season: %s (%s)\n", season.SeasonID, season.SeasonName)
		if season.LiveName != "" {
			fmt.Printf("site reports: %s (match: %v)\n", season.LiveName, season.Valid)
		}

		for _, dataType := range []string{"games", "schedules-only", "fields"} {
			latest, err := service.GetLatestRefresh(ctx, dataType, *statusDivision)
			if err != nil {
				fmt.Printf("%s: no refresh recorded\n", dataType)
				continue
			}
			at := time.Unix(latest.RefreshCompletedAt, 0).In(timezone.Location)
			if latest.Success {
				fmt.Printf("%s: ok, %d records at %s\n",
					dataType, latest.RecordsUpdated, at.Format("2006-01-02 15:04"))
			} else {
				fmt.Printf("%s: FAILED at %s: %s\n",
					dataType, at.Format("2006-01-02 15:04"), latest.ErrorMessage)
			}
		}
	},
}
