package league

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mufa-backend/lib/scrapers/mufa"
	"mufa-backend/lib/timezone"
	"mufa-backend/services/league/db"
)

// Store is the reconciliation layer between scraped records and the
// persistent tables. every write is an idempotent upsert keyed by a
// deterministic id, so concurrent team pipelines can apply results in
// any order without coordinating beyond the database itself.
type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

func (s Store) GetCurrentSeason(ctx context.Context) (db.Season, error) {
	return s.qry.GetCurrentSeason(ctx)
}

func (s Store) GetDivisions(ctx context.Context, seasonID string) ([]db.Division, error) {
	return s.qry.ListDivisions(ctx, seasonID)
}

func (s Store) GetTeams(ctx context.Context, divisionID string) ([]db.Team, error) {
	return s.qry.ListTeams(ctx, divisionID)
}

func (s Store) GetAllActiveTeams(ctx context.Context) ([]db.Team, error) {
	return s.qry.ListAllActiveTeams(ctx)
}

// the staleness predicate pushed down into sql, equivalent to
// SelectDue over the persisted timestamps
func (s Store) GetStaleTeams(ctx context.Context, divisionID string, maxAge time.Duration) ([]db.Team, error) {
	cutoff := timezone.Now().Add(-maxAge).Unix()
	return s.qry.ListStaleTeams(ctx, db.ListStaleTeamsParams{
		DivisionID: divisionID,
		Cutoff:     cutoff,
	})
}

func (s Store) GetTeamSchedule(ctx context.Context, teamID, divisionID string) ([]db.ScheduleRow, error) {
	return s.qry.ListTeamSchedule(ctx, db.ListTeamScheduleParams{
		TeamID:     teamID,
		DivisionID: divisionID,
	})
}

func (s Store) ShouldForceRefresh(ctx context.Context) (bool, error) {
	season, err := s.qry.GetCurrentSeason(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return season.ForceRefresh, nil
}

func (s Store) SetForceRefresh(ctx context.Context, enabled bool) error {
	return s.qry.SetForceRefresh(ctx, enabled)
}

func (s Store) MarkTeamScraped(ctx context.Context, teamID string, at time.Time) error {
	return s.qry.MarkTeamScraped(ctx, db.MarkTeamScrapedParams{
		LastScraped: at.Unix(),
		ID:          teamID,
	})
}

func (s Store) MarkFullScrape(ctx context.Context, seasonID string, at time.Time) error {
	return s.qry.MarkFullScrape(ctx, db.MarkFullScrapeParams{
		LastFullScrape: at.Unix(),
		ID:             seasonID,
	})
}

func (s Store) ReconcileTeams(ctx context.Context, teams []mufa.Team) error {
	now := timezone.Now().Unix()
	var errlist []error
	for _, team := range teams {
		err := s.qry.UpsertTeam(ctx, db.UpsertTeamParams{
			ID:          team.Id,
			DivisionID:  team.DivisionId,
			Name:        team.Name,
			JerseyColor: team.JerseyColor,
			UpdatedAt:   now,
		})
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

// ReconcileGames applies one team's extracted fixtures. each record
// is its own statement on purpose: a rejected row must not roll back
// its already-applied siblings. the venue row is ensured first so the
// game's field reference always resolves.
func (s Store) ReconcileGames(ctx context.Context, divisionID string, games []mufa.Game) (int, error) {
	now := timezone.Now().Unix()
	applied := 0
	var errlist []error

	for _, game := range games {
		fieldRowID := ""
		if game.FieldName != "" {
			fieldRowID = FieldID(game.FieldName)
			err := s.qry.UpsertField(ctx, db.UpsertFieldParams{
				ID:        fieldRowID,
				MufaID:    game.FieldId,
				Name:      game.FieldName,
				MapUrl:    mufa.MapSearchUrl(game.FieldName),
				UpdatedAt: now,
			})
			if err != nil {
				errlist = append(errlist, err)
				continue
			}
		}

		err := s.qry.UpsertGame(ctx, db.UpsertGameParams{
			ID:          GameID(divisionID, game.TeamId, game.OpponentId, game.StartsAt),
			DivisionID:  divisionID,
			TeamAID:     game.TeamId,
			TeamBID:     game.OpponentId,
			FieldID:     fieldRowID,
			GameDate:    game.StartsAt.Format("2006-01-02"),
			GameTime:    game.StartsAt.Format("15:04:05"),
			IsComplete:  game.IsComplete,
			LastUpdated: now,
		})
		if err != nil {
			errlist = append(errlist, err)
			continue
		}
		applied++
	}

	return applied, errors.Join(errlist...)
}

func (s Store) ReconcileFieldDetails(ctx context.Context, details mufa.FieldDetails) error {
	return s.qry.UpsertField(ctx, db.UpsertFieldParams{
		ID:          FieldID(details.Name),
		MufaID:      details.Id,
		Name:        details.Name,
		Address:     details.Address,
		MapUrl:      details.MapUrl,
		DiagramUrl:  details.DiagramUrl,
		ParkingInfo: details.ParkingInfo,
		UpdatedAt:   timezone.Now().Unix(),
	})
}

func (s Store) LogRefresh(ctx context.Context, rec db.InsertRefreshLogParams) error {
	if rec.RefreshCompletedAt == 0 {
		rec.RefreshCompletedAt = timezone.Now().Unix()
	}
	return s.qry.InsertRefreshLog(ctx, rec)
}

func (s Store) GetLatestRefresh(ctx context.Context, dataType, divisionID string) (db.RefreshLog, error) {
	return s.qry.GetLatestRefresh(ctx, db.GetLatestRefreshParams{
		DataType:   dataType,
		DivisionID: divisionID,
	})
}

func (s Store) Queries() *db.Queries {
	return s.qry
}
