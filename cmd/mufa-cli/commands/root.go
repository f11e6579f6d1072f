package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mufa-backend/lib/configutil"
	configsqlite "mufa-backend/lib/configutil/sqlite"
	"mufa-backend/lib/scrapers/mufa"
	"mufa-backend/lib/serviceutil"
	"mufa-backend/services/league"
	"mufa-backend/services/league/db"
)

var rootCmd = &cobra.Command{
	Use:   "mufa-cli",
	Short: "mufa-cli scrapes the league site and manages the local schedule database.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	Database      configsqlite.Struct `json:"database"`
	BaseUrl       string              `json:"base_url"`
	MaxAgeMinutes int                 `json:"max_age_minutes"`
}

func createService() *league.Service {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	database, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("open database", err)
	}
	return league.NewService(league.ServiceOptions{
		DB:     database,
		Client: mufa.NewClient(mufa.ClientOptions{BaseUrl: cfg.BaseUrl}),
		MaxAge: time.Duration(cfg.MaxAgeMinutes) * time.Minute,
	})
}
