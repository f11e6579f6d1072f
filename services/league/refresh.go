package league

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"mufa-backend/lib/scrapers/mufa"
	"mufa-backend/lib/timezone"
	"mufa-backend/services/league/db"
)

var tracer = otel.Tracer("services/league")

// ErrNoCurrentSeason aborts a refresh before any network traffic:
// without a season row there is no division list to walk and no year
// to resolve fixture dates against.
var ErrNoCurrentSeason = errors.New("no current season configured")

// ErrNoDivisions means the current season has no active divisions, a
// misconfiguration rather than an empty run.
var ErrNoDivisions = errors.New("current season has no divisions")

// ErrParseFailure marks a division whose pages all fetched cleanly but
// yielded zero fixtures. That pattern means the site markup changed,
// not that the division is idle, so it surfaces as an error instead of
// silently recording an empty pass.
var ErrParseFailure = errors.New("fetched pages produced no fixtures")

type Orchestrator struct {
	Client mufa.Client
	Store  Store
	// age past which a team's schedule is considered stale
	MaxAge time.Duration
}

func NewOrchestrator(client mufa.Client, store Store, maxAge time.Duration) Orchestrator {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return Orchestrator{
		Client: client,
		Store:  store,
		MaxAge: maxAge,
	}
}

type TeamRefresh struct {
	TeamID       string `json:"team_id"`
	GamesApplied int    `json:"games_applied"`
	Err          error  `json:"-"`
}

type DivisionRefresh struct {
	DivisionID   string        `json:"division_id"`
	TeamsScraped int           `json:"teams_scraped"`
	GamesApplied int           `json:"games_applied"`
	Teams        []TeamRefresh `json:"teams"`
	Err          error         `json:"-"`
}

type RunSummary struct {
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
	Forced    bool              `json:"forced"`
	Divisions []DivisionRefresh `json:"divisions"`
}

func (s RunSummary) GamesApplied() int {
	total := 0
	for _, d := range s.Divisions {
		total += d.GamesApplied
	}
	return total
}

func (s RunSummary) Err() error {
	var errlist []error
	for _, d := range s.Divisions {
		if d.Err != nil {
			errlist = append(errlist, fmt.Errorf("division %s: %w", d.DivisionID, d.Err))
		}
		for _, t := range d.Teams {
			if t.Err != nil {
				errlist = append(errlist, fmt.Errorf("team %s: %w", t.TeamID, t.Err))
			}
		}
	}
	return errors.Join(errlist...)
}

// RefreshAll walks every division of the current season in parallel
// and re-scrapes the teams whose schedules have gone stale. One team
// failing never blocks its siblings; failures are carried in the
// summary and in the per-division audit rows. When the season's
// force_refresh flag is set every team is scraped regardless of age
// and the flag is cleared once the run completes.
func (o Orchestrator) RefreshAll(ctx context.Context) (RunSummary, error) {
	ctx, span := tracer.Start(ctx, "RefreshAll")
	defer span.End()

	started := timezone.Now()
	summary := RunSummary{StartedAt: started}

	season, err := o.Store.GetCurrentSeason(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrNoCurrentSeason, err)
		o.auditFailure(ctx, "games", "", err, started)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return summary, err
	}
	summary.Forced = season.ForceRefresh

	divisions, err := o.Store.GetDivisions(ctx, season.ID)
	if err != nil {
		o.auditFailure(ctx, "games", "", err, started)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return summary, err
	}
	if len(divisions) == 0 {
		o.auditFailure(ctx, "games", "", ErrNoDivisions, started)
		span.RecordError(ErrNoDivisions)
		span.SetStatus(codes.Error, ErrNoDivisions.Error())
		return summary, ErrNoDivisions
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, division := range divisions {
		wg.Add(1)
		go func(division db.Division) {
			defer wg.Done()
			result := o.refreshDivision(ctx, season, division)
			mu.Lock()
			defer mu.Unlock()
			summary.Divisions = append(summary.Divisions, result)
		}(division)
	}
	wg.Wait()

	if season.ForceRefresh {
		if err := o.Store.SetForceRefresh(ctx, false); err != nil {
			slog.WarnContext(ctx, "failed to clear force refresh flag", "err", err)
		}
	}
	if err := o.Store.MarkFullScrape(ctx, season.ID, timezone.Now()); err != nil {
		slog.WarnContext(ctx, "failed to record full scrape time", "err", err)
	}

	summary.Duration = time.Since(started)
	slog.InfoContext(ctx, "schedule refresh complete",
		"divisions", len(summary.Divisions),
		"games", summary.GamesApplied(),
		"forced", summary.Forced,
		"duration", summary.Duration,
	)
	return summary, nil
}

func (o Orchestrator) refreshDivision(ctx context.Context, season db.Season, division db.Division) DivisionRefresh {
	ctx, span := tracer.Start(ctx, "refreshDivision")
	defer span.End()

	started := timezone.Now()
	result := DivisionRefresh{DivisionID: division.ID}

	teams, err := o.dueTeams(ctx, season, division)
	if err != nil {
		result.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.auditFailure(ctx, "games", division.ID, err, started)
		return result
	}
	if len(teams) == 0 {
		slog.DebugContext(ctx, "division up to date", "division", division.ID)
		return result
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, team := range teams {
		wg.Add(1)
		go func(team db.Team) {
			defer wg.Done()
			refresh := o.refreshTeam(ctx, season, division, team)
			mu.Lock()
			defer mu.Unlock()
			result.Teams = append(result.Teams, refresh)
		}(team)
	}
	wg.Wait()

	fetchErrs := 0
	for _, t := range result.Teams {
		if t.Err != nil {
			fetchErrs++
			continue
		}
		result.TeamsScraped++
		result.GamesApplied += t.GamesApplied
	}
	if result.GamesApplied == 0 && fetchErrs == 0 && len(result.Teams) > 0 {
		result.Err = ErrParseFailure
	}

	o.auditDivision(ctx, division.ID, result, started)
	return result
}

// dueTeams resolves which teams to scrape. An empty division triggers
// team discovery from the division page before the staleness pass,
// since staleness is meaningless over a roster we have never seen.
func (o Orchestrator) dueTeams(ctx context.Context, season db.Season, division db.Division) ([]db.Team, error) {
	known, err := o.Store.GetTeams(ctx, division.ID)
	if err != nil {
		return nil, err
	}
	if len(known) == 0 {
		if err := o.discoverTeams(ctx, division.ID); err != nil {
			return nil, err
		}
	}
	if season.ForceRefresh {
		return o.Store.GetTeams(ctx, division.ID)
	}
	return o.Store.GetStaleTeams(ctx, division.ID, o.MaxAge)
}

func (o Orchestrator) discoverTeams(ctx context.Context, divisionID string) error {
	html, err := o.Client.FetchPage(ctx, o.Client.TeamListUrl(divisionID))
	if err != nil {
		return fmt.Errorf("fetch team list: %w", err)
	}
	teams, err := mufa.ExtractTeams(html, divisionID)
	if err != nil {
		return fmt.Errorf("extract teams: %w", err)
	}
	slog.InfoContext(ctx, "discovered teams", "division", divisionID, "count", len(teams))
	return o.Store.ReconcileTeams(ctx, teams)
}

// refreshTeam is the unit of work of a run. last_scraped only advances
// after the team's fixtures were fetched, extracted and applied, so a
// failed team stays at the front of the next run's stale queue.
func (o Orchestrator) refreshTeam(ctx context.Context, season db.Season, division db.Division, team db.Team) TeamRefresh {
	ctx, span := tracer.Start(ctx, "refreshTeam")
	defer span.End()

	refresh := TeamRefresh{TeamID: team.ID}

	html, err := o.Client.FetchPage(ctx, o.Client.TeamScheduleUrl(team.ID, division.ID))
	if err != nil {
		refresh.Err = fmt.Errorf("fetch schedule: %w", err)
		span.RecordError(refresh.Err)
		span.SetStatus(codes.Error, refresh.Err.Error())
		return refresh
	}

	games, err := mufa.ExtractGames(html, mufa.Team{
		Id:         team.ID,
		DivisionId: division.ID,
		Name:       team.Name,
	}, mufa.ScheduleOptions{SeasonYear: int(season.SeasonYear)})
	if err != nil {
		refresh.Err = fmt.Errorf("extract games: %w", err)
		span.RecordError(refresh.Err)
		span.SetStatus(codes.Error, refresh.Err.Error())
		return refresh
	}

	applied, err := o.Store.ReconcileGames(ctx, division.ID, games)
	refresh.GamesApplied = applied
	if err != nil {
		refresh.Err = fmt.Errorf("reconcile games: %w", err)
		span.RecordError(refresh.Err)
		span.SetStatus(codes.Error, refresh.Err.Error())
		return refresh
	}

	if err := o.Store.MarkTeamScraped(ctx, team.ID, timezone.Now()); err != nil {
		refresh.Err = fmt.Errorf("mark scraped: %w", err)
		span.RecordError(refresh.Err)
		span.SetStatus(codes.Error, refresh.Err.Error())
	}
	return refresh
}

// RefreshSchedules is the fast path: every active team across all
// divisions, schedules only, skipping team discovery and the staleness
// filter. It still advances last_scraped so the slow path doesn't
// redo work the fast path just did.
func (o Orchestrator) RefreshSchedules(ctx context.Context) (RunSummary, error) {
	ctx, span := tracer.Start(ctx, "RefreshSchedules")
	defer span.End()

	started := timezone.Now()
	summary := RunSummary{StartedAt: started}

	season, err := o.Store.GetCurrentSeason(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrNoCurrentSeason, err)
		o.auditFailure(ctx, "schedules-only", "", err, started)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return summary, err
	}

	teams, err := o.Store.GetAllActiveTeams(ctx)
	if err != nil {
		o.auditFailure(ctx, "schedules-only", "", err, started)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return summary, err
	}

	result := DivisionRefresh{}
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, team := range teams {
		wg.Add(1)
		go func(team db.Team) {
			defer wg.Done()
			refresh := o.refreshTeam(ctx, season, db.Division{ID: team.DivisionID}, team)
			mu.Lock()
			defer mu.Unlock()
			result.Teams = append(result.Teams, refresh)
		}(team)
	}
	wg.Wait()

	for _, t := range result.Teams {
		if t.Err != nil {
			continue
		}
		result.TeamsScraped++
		result.GamesApplied += t.GamesApplied
	}
	summary.Divisions = append(summary.Divisions, result)
	summary.Duration = time.Since(started)

	o.audit(ctx, db.InsertRefreshLogParams{
		DataType:       "schedules-only",
		Success:        true,
		RecordsUpdated: int64(result.GamesApplied),
		ErrorMessage:   errText(summary.Err()),
		DurationMs:     summary.Duration.Milliseconds(),
	})

	slog.InfoContext(ctx, "schedules-only refresh complete",
		"teams", result.TeamsScraped,
		"games", result.GamesApplied,
		"duration", summary.Duration,
	)
	return summary, nil
}

// RefreshFields enriches the field table from the per-division field
// listings and their detail pages. Fields shared by several divisions
// are fetched once.
func (o Orchestrator) RefreshFields(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "RefreshFields")
	defer span.End()

	started := timezone.Now()

	season, err := o.Store.GetCurrentSeason(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrNoCurrentSeason, err)
		o.auditFailure(ctx, "fields", "", err, started)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	divisions, err := o.Store.GetDivisions(ctx, season.ID)
	if err != nil {
		o.auditFailure(ctx, "fields", "", err, started)
		return err
	}

	seen := map[string]bool{}
	updated := 0
	var errlist []error
	for _, division := range divisions {
		html, err := o.Client.FetchPage(ctx, o.Client.FieldListUrl(division.ID))
		if err != nil {
			errlist = append(errlist, fmt.Errorf("division %s: %w", division.ID, err))
			continue
		}
		links, err := mufa.ExtractFieldLinks(html)
		if err != nil {
			errlist = append(errlist, fmt.Errorf("division %s: %w", division.ID, err))
			continue
		}
		for _, link := range links {
			if seen[link.Id] {
				continue
			}
			seen[link.Id] = true

			details := mufa.FieldDetails{
				Id:     link.Id,
				Name:   link.Name,
				MapUrl: mufa.MapSearchUrl(link.Name),
			}
			detailHtml, err := o.Client.FetchPage(ctx, o.Client.FieldDetailUrl(link.Id, division.ID))
			if err == nil {
				if d, derr := mufa.ExtractFieldDetails(detailHtml, link, o.Client.BaseUrl()); derr == nil {
					details = d
				}
			} else {
				slog.WarnContext(ctx, "field detail fetch failed, keeping listing data",
					"field", link.Id, "err", err)
			}
			if err := o.Store.ReconcileFieldDetails(ctx, details); err != nil {
				errlist = append(errlist, fmt.Errorf("field %s: %w", link.Id, err))
				continue
			}
			updated++
		}
	}

	runErr := errors.Join(errlist...)
	o.audit(ctx, db.InsertRefreshLogParams{
		DataType:       "fields",
		Success:        runErr == nil,
		RecordsUpdated: int64(updated),
		ErrorMessage:   errText(runErr),
		DurationMs:     time.Since(started).Milliseconds(),
	})
	slog.InfoContext(ctx, "field refresh complete", "fields", updated)
	return runErr
}

func (o Orchestrator) auditDivision(ctx context.Context, divisionID string, result DivisionRefresh, started time.Time) {
	var msg string
	if result.Err != nil {
		msg = result.Err.Error()
	}
	o.audit(ctx, db.InsertRefreshLogParams{
		DataType:       "games",
		DivisionID:     divisionID,
		Success:        result.Err == nil,
		RecordsUpdated: int64(result.GamesApplied),
		ErrorMessage:   msg,
		DurationMs:     time.Since(started).Milliseconds(),
	})
}

func (o Orchestrator) auditFailure(ctx context.Context, dataType, divisionID string, err error, started time.Time) {
	o.audit(ctx, db.InsertRefreshLogParams{
		DataType:     dataType,
		DivisionID:   divisionID,
		Success:      false,
		ErrorMessage: err.Error(),
		DurationMs:   time.Since(started).Milliseconds(),
	})
}

func (o Orchestrator) audit(ctx context.Context, rec db.InsertRefreshLogParams) {
	if err := o.Store.LogRefresh(ctx, rec); err != nil {
		slog.WarnContext(ctx, "failed to write refresh audit row", "err", err)
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
