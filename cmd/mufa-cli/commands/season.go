package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mufa-backend/lib/serviceutil"
	"mufa-backend/services/league"
)

var (
	seasonName  *string
	seasonYear  *int
	seasonStart *string
	seasonEnd   *string
	// repeated "id=name" pairs
	seasonDivisions *[]string
)

func init() {
	seasonName = seasonSetupCmd.Flags().String("name", "", "Display name, e.g. \"Summer 2025\".")
	seasonYear = seasonSetupCmd.Flags().Int("year", 0, "Calendar year schedule dates resolve against.")
	seasonStart = seasonSetupCmd.Flags().String("start", "", "First day of play (YYYY-MM-DD).")
	seasonEnd = seasonSetupCmd.Flags().String("end", "", "Last day of play (YYYY-MM-DD).")
	seasonDivisions = seasonSetupCmd.Flags().StringArray("division", nil, "Division as id=name, repeatable.")
	seasonSetupCmd.MarkFlagRequired("name")
	seasonSetupCmd.MarkFlagRequired("year")

	seasonCmd.AddCommand(seasonSetupCmd)
	rootCmd.AddCommand(seasonCmd)
}

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Manages the configured season.",
}

var seasonSetupCmd = &cobra.Command{
	Use:   "setup <id> [--division id=name ...]",
	Short: "Installs a season as current along with its divisions.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var divisions []league.SetupDivisionParams
		for _, pair := range *seasonDivisions {
			id, name, ok := strings.Cut(pair, "=")
			if !ok {
				serviceutil.Fatal("parse division", fmt.Errorf("expected id=name, got %q", pair))
			}
			divisions = append(divisions, league.SetupDivisionParams{ID: id, Name: name})
		}

		service := createService()
		err := service.SetupSeason(cmd.Context(), league.SetupSeasonParams{
			ID:         args[0],
			Name:       *seasonName,
			SeasonYear: *seasonYear,
			StartDate:  *seasonStart,
			EndDate:    *seasonEnd,
			Divisions:  divisions,
		})
		if err != nil {
			serviceutil.Fatal("setup season", err)
		}
	},
}
