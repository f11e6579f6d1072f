package league

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"mufa-backend/lib/scrapers/mufa"
	"mufa-backend/lib/timezone"
	"mufa-backend/services/league/db"
)

type ServiceOptions struct {
	DB     *sql.DB
	Client mufa.Client
	// zero values pick the defaults
	MaxAge   time.Duration
	CacheTTL time.Duration
}

// Service is the read/control surface over the league tables. Writes
// come in through the Orchestrator's scrape runs; the service serves
// the reconciled state and the operator controls around it.
type Service struct {
	store        Store
	orchestrator Orchestrator
	schedules    scheduleCache

	seasonMu        sync.Mutex
	seasonCheckedAt time.Time
	seasonValid     bool
	seasonLive      string
}

// seasonCheckInterval bounds homepage traffic from validity checks.
const seasonCheckInterval = time.Hour

func NewService(opts ServiceOptions) *Service {
	store := NewStore(opts.DB)
	return &Service{
		store:        store,
		orchestrator: NewOrchestrator(opts.Client, store, opts.MaxAge),
		schedules:    newScheduleCache(0, opts.CacheTTL),
	}
}

func (s *Service) Orchestrator() Orchestrator {
	return s.orchestrator
}

func (s *Service) Store() Store {
	return s.store
}

// RefreshAll runs the staleness-aware scrape. A forced run purges the
// schedule cache so callers see the rescraped rows right away.
func (s *Service) RefreshAll(ctx context.Context) (RunSummary, error) {
	summary, err := s.orchestrator.RefreshAll(ctx)
	if summary.Forced {
		s.schedules.Purge()
	}
	return summary, err
}

func (s *Service) RefreshSchedules(ctx context.Context) (RunSummary, error) {
	return s.orchestrator.RefreshSchedules(ctx)
}

func (s *Service) RefreshFields(ctx context.Context) error {
	return s.orchestrator.RefreshFields(ctx)
}

func (s *Service) GetDivisions(ctx context.Context) ([]db.Division, error) {
	season, err := s.store.GetCurrentSeason(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.GetDivisions(ctx, season.ID)
}

func (s *Service) GetTeams(ctx context.Context, divisionID string) ([]db.Team, error) {
	return s.store.GetTeams(ctx, divisionID)
}

func (s *Service) GetTeamSchedule(ctx context.Context, teamID, divisionID string) ([]db.ScheduleRow, error) {
	ctx, span := tracer.Start(ctx, "GetTeamSchedule")
	defer span.End()

	if rows, ok := s.schedules.Get(teamID, divisionID); ok {
		return rows, nil
	}
	rows, err := s.store.GetTeamSchedule(ctx, teamID, divisionID)
	if err != nil {
		return nil, err
	}
	s.schedules.Set(teamID, divisionID, rows)
	return rows, nil
}

func (s *Service) GetFields(ctx context.Context) ([]db.Field, error) {
	return s.store.Queries().ListFields(ctx)
}

type ForceRefreshStatus struct {
	Enabled        bool      `json:"enabled"`
	SeasonID       string    `json:"season_id"`
	LastFullScrape time.Time `json:"last_full_scrape"`
}

func (s *Service) SetForceRefresh(ctx context.Context, enabled bool) error {
	if err := s.store.SetForceRefresh(ctx, enabled); err != nil {
		return err
	}
	slog.InfoContext(ctx, "force refresh flag changed", "enabled", enabled)
	return nil
}

func (s *Service) GetForceRefreshStatus(ctx context.Context) (ForceRefreshStatus, error) {
	season, err := s.store.GetCurrentSeason(ctx)
	if err != nil {
		return ForceRefreshStatus{}, err
	}
	status := ForceRefreshStatus{
		Enabled:  season.ForceRefresh,
		SeasonID: season.ID,
	}
	if season.LastFullScrape.Valid {
		status.LastFullScrape = time.Unix(season.LastFullScrape.Int64, 0).In(timezone.Location)
	}
	return status, nil
}

func (s *Service) GetLatestRefresh(ctx context.Context, dataType, divisionID string) (db.RefreshLog, error) {
	return s.store.GetLatestRefresh(ctx, dataType, divisionID)
}

type SeasonStatus struct {
	SeasonID   string    `json:"season_id"`
	SeasonName string    `json:"season_name"`
	LiveName   string    `json:"live_name"`
	Valid      bool      `json:"valid"`
	CheckedAt  time.Time `json:"checked_at"`
}

// GetSeasonStatus compares the configured season against the season
// the site currently advertises on its homepage. The live lookup is
// cached for an hour; between checks callers get the cached verdict.
func (s *Service) GetSeasonStatus(ctx context.Context) (SeasonStatus, error) {
	season, err := s.store.GetCurrentSeason(ctx)
	if err != nil {
		return SeasonStatus{}, err
	}

	s.seasonMu.Lock()
	defer s.seasonMu.Unlock()

	now := timezone.Now()
	if now.Sub(s.seasonCheckedAt) >= seasonCheckInterval {
		live, err := s.lookupLiveSeason(ctx)
		if err != nil {
			slog.WarnContext(ctx, "live season check failed", "err", err)
		} else {
			s.seasonLive = live
			s.seasonValid = seasonNamesMatch(season.Name, live)
			s.seasonCheckedAt = now
		}
	}

	return SeasonStatus{
		SeasonID:   season.ID,
		SeasonName: season.Name,
		LiveName:   s.seasonLive,
		Valid:      s.seasonValid,
		CheckedAt:  s.seasonCheckedAt,
	}, nil
}

func (s *Service) lookupLiveSeason(ctx context.Context) (string, error) {
	client := s.orchestrator.Client
	html, err := client.FetchPage(ctx, client.HomeUrl())
	if err != nil {
		return "", fmt.Errorf("fetch homepage: %w", err)
	}
	return mufa.ExtractSeasonName(html)
}

func seasonNamesMatch(configured, live string) bool {
	return strings.EqualFold(strings.TrimSpace(configured), strings.TrimSpace(live))
}

type SetupSeasonParams struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	SeasonYear int                   `json:"season_year"`
	StartDate  string                `json:"start_date"`
	EndDate    string                `json:"end_date"`
	Divisions  []SetupDivisionParams `json:"divisions"`
}

type SetupDivisionParams struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SetupSeason installs a season as the current one together with its
// division list. It is the one admin write that does not originate
// from a scrape.
func (s *Service) SetupSeason(ctx context.Context, params SetupSeasonParams) error {
	if params.ID == "" || params.Name == "" {
		return errors.New("season id and name are required")
	}
	qry := s.store.Queries()
	err := qry.UpsertSeason(ctx, db.UpsertSeasonParams{
		ID:         params.ID,
		Name:       params.Name,
		SeasonYear: int64(params.SeasonYear),
		StartDate:  params.StartDate,
		EndDate:    params.EndDate,
		IsCurrent:  true,
	})
	if err != nil {
		return fmt.Errorf("upsert season: %w", err)
	}
	if err := qry.ClearOtherCurrentSeasons(ctx, params.ID); err != nil {
		return fmt.Errorf("clear other seasons: %w", err)
	}
	for _, division := range params.Divisions {
		err := qry.UpsertDivision(ctx, db.UpsertDivisionParams{
			ID:       division.ID,
			SeasonID: params.ID,
			Name:     division.Name,
			IsActive: true,
		})
		if err != nil {
			return fmt.Errorf("upsert division %s: %w", division.ID, err)
		}
	}
	slog.InfoContext(ctx, "season configured",
		"season", params.ID, "divisions", len(params.Divisions))
	return nil
}
