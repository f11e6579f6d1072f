package main

import (
	"flag"
	"log/slog"
	"net/http"
	"time"

	"mufa-backend/lib/configutil"
	configsqlite "mufa-backend/lib/configutil/sqlite"
	"mufa-backend/lib/scrapers/mufa"
	"mufa-backend/lib/serviceutil"
	"mufa-backend/lib/telemetry"
	"mufa-backend/services/league"
	"mufa-backend/services/league/db"
)

type Config struct {
	Database configsqlite.Struct `json:"database"`
	Port     int                 `json:"port"`
	// protects the mutating endpoints, empty disables auth
	AdminToken string `json:"admin_token"`
	// staleness window in minutes, 0 uses the default
	MaxAgeMinutes int    `json:"max_age_minutes"`
	BaseUrl       string `json:"base_url"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	initialScrape := flag.Bool("scrape", false, "Trigger a full refresh immediately on run.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	_, err := telemetry.SetupFromEnv(ctx, "mufad")
	if err != nil {
		serviceutil.Fatal("init telemetry", err)
	}
	telemetry.InitSlog(*verbose)
	telemetry.InstrumentPerfStats(ctx)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}

	database, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("open database", err)
	}

	service := league.NewService(league.ServiceOptions{
		DB:     database,
		Client: mufa.NewClient(mufa.ClientOptions{BaseUrl: cfg.BaseUrl}),
		MaxAge: time.Duration(cfg.MaxAgeMinutes) * time.Minute,
	})

	mux := http.NewServeMux()
	RegisterRoutes(mux, service, cfg.AdminToken)

	service.StartDaemons(ctx)
	if *initialScrape {
		go func() {
			if _, err := service.RefreshAll(ctx); err != nil {
				slog.ErrorContext(ctx, "initial refresh", "err", err)
			}
		}()
	}

	go serviceutil.StartHttpServer(cfg.Port, mux)
	<-ctx.Done()
}
