package league

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mufa-backend/lib/scrapers/mufa"
	"mufa-backend/lib/testutil"
	"mufa-backend/lib/timezone"
	"mufa-backend/services/league/db"
)

func setupStore(t *testing.T) Store {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "league",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)
	return NewStore(result.DB)
}

func seedSeason(t *testing.T, store Store) db.Season {
	ctx := context.Background()
	err := store.Queries().UpsertSeason(ctx, db.UpsertSeasonParams{
		ID:         "summer-2025",
		Name:       "Summer 2025",
		SeasonYear: 2025,
		StartDate:  "2025-05-01",
		EndDate:    "2025-08-31",
		IsCurrent:  true,
	})
	require.NoError(t, err)
	err = store.Queries().UpsertDivision(ctx, db.UpsertDivisionParams{
		ID:       "d12",
		SeasonID: "summer-2025",
		Name:     "Monday Rec",
		IsActive: true,
	})
	require.NoError(t, err)

	season, err := store.GetCurrentSeason(ctx)
	require.NoError(t, err)
	return season
}

func TestReconcileGamesIdempotent(t *testing.T) {
	store := setupStore(t)
	seedSeason(t, store)
	ctx := context.Background()

	starts := time.Date(2025, time.June, 2, 19, 30, 0, 0, timezone.Location)
	games := []mufa.Game{{
		TeamId:       "t100",
		OpponentId:   "t200",
		OpponentName: "Huckleberries",
		FieldId:      "42",
		FieldName:    "Burr Jones Field",
		StartsAt:     starts,
	}}

	applied, err := store.ReconcileGames(ctx, "d12", games)
	require.NoError(t, err)
	require.Equal(t, 1, applied)

	// the opponent's page reports the same fixture with the sides
	// swapped; it must land on the same row
	mirrored := []mufa.Game{{
		TeamId:     "t200",
		OpponentId: "t100",
		FieldId:    "42",
		FieldName:  "Burr Jones Field",
		StartsAt:   starts,
		IsComplete: true,
	}}
	applied, err = store.ReconcileGames(ctx, "d12", mirrored)
	require.NoError(t, err)
	require.Equal(t, 1, applied)

	count, err := store.Queries().CountGames(ctx, "d12")
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	game, err := store.Queries().GetGame(ctx, GameID("d12", "t100", "t200", starts))
	require.NoError(t, err)
	require.Equal(t, "t100", game.TeamAID)
	require.Equal(t, "t200", game.TeamBID)
	require.True(t, game.IsComplete)
}

func TestReconcileGamesKeepsKnownField(t *testing.T) {
	store := setupStore(t)
	seedSeason(t, store)
	ctx := context.Background()

	starts := time.Date(2025, time.June, 9, 18, 15, 0, 0, timezone.Location)
	withField := []mufa.Game{{
		TeamId:     "t100",
		OpponentId: "t200",
		FieldId:    "42",
		FieldName:  "Burr Jones Field",
		StartsAt:   starts,
	}}
	_, err := store.ReconcileGames(ctx, "d12", withField)
	require.NoError(t, err)

	// a later scrape of the same fixture without venue info must not
	// blank out the field reference
	withoutField := []mufa.Game{{
		TeamId:     "t200",
		OpponentId: "t100",
		StartsAt:   starts,
	}}
	_, err = store.ReconcileGames(ctx, "d12", withoutField)
	require.NoError(t, err)

	game, err := store.Queries().GetGame(ctx, GameID("d12", "t100", "t200", starts))
	require.NoError(t, err)
	require.Equal(t, "burr-jones-field", game.FieldID)
}

func TestReconcileFieldDetailsMerges(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	// pass 1: listing info only
	err := store.ReconcileFieldDetails(ctx, mufa.FieldDetails{
		Id:     "42",
		Name:   "Burr Jones Field",
		MapUrl: mufa.MapSearchUrl("Burr Jones Field"),
	})
	require.NoError(t, err)

	// pass 2: full detail page
	err = store.ReconcileFieldDetails(ctx, mufa.FieldDetails{
		Id:          "42",
		Name:        "Burr Jones Field",
		Address:     "1119 E Washington Ave, Madison, WI 53703",
		MapUrl:      "https://maps.example.com/burr-jones",
		DiagramUrl:  "https://www.mufa.org/uploads/parks/burr-jones.png",
		ParkingInfo: "Lot on the east side",
	})
	require.NoError(t, err)

	// pass 3: degraded scrape with most details missing must not
	// clobber what pass 2 learned
	err = store.ReconcileFieldDetails(ctx, mufa.FieldDetails{
		Id:   "42",
		Name: "Burr Jones Field",
	})
	require.NoError(t, err)

	field, err := store.Queries().GetField(ctx, FieldID("Burr Jones Field"))
	require.NoError(t, err)
	require.Equal(t, "1119 E Washington Ave, Madison, WI 53703", field.Address)
	require.Equal(t, "https://maps.example.com/burr-jones", field.MapUrl)
	require.Equal(t, "https://www.mufa.org/uploads/parks/burr-jones.png", field.DiagramUrl)
	require.Equal(t, "Lot on the east side", field.ParkingInfo)
}

func TestReconcileTeamsKeepsJerseyColor(t *testing.T) {
	store := setupStore(t)
	seedSeason(t, store)
	ctx := context.Background()

	err := store.ReconcileTeams(ctx, []mufa.Team{{
		Id:          "t100",
		DivisionId:  "d12",
		Name:        "Disc Jockeys",
		JerseyColor: "Teal",
	}})
	require.NoError(t, err)

	// a scrape that couldn't read the color reports the placeholder
	err = store.ReconcileTeams(ctx, []mufa.Team{{
		Id:          "t100",
		DivisionId:  "d12",
		Name:        "Disc Jockeys",
		JerseyColor: "Unknown",
	}})
	require.NoError(t, err)

	team, err := store.Queries().GetTeam(ctx, "t100")
	require.NoError(t, err)
	require.Equal(t, "Teal", team.JerseyColor)
}

func TestStaleTeamsQuery(t *testing.T) {
	store := setupStore(t)
	seedSeason(t, store)
	ctx := context.Background()

	err := store.ReconcileTeams(ctx, []mufa.Team{
		{Id: "t1", DivisionId: "d12", Name: "Alpha"},
		{Id: "t2", DivisionId: "d12", Name: "Bravo"},
		{Id: "t3", DivisionId: "d12", Name: "Charlie"},
	})
	require.NoError(t, err)

	now := timezone.Now()
	require.NoError(t, store.MarkTeamScraped(ctx, "t1", now))
	require.NoError(t, store.MarkTeamScraped(ctx, "t2", now.Add(-3*time.Hour)))

	stale, err := store.GetStaleTeams(ctx, "d12", 2*time.Hour)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	// never-scraped first, then oldest timestamp
	require.Equal(t, "t3", stale[0].ID)
	require.Equal(t, "t2", stale[1].ID)
}

func TestLatestRefreshLog(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.LogRefresh(ctx, db.InsertRefreshLogParams{
		DataType:           "games",
		DivisionID:         "d12",
		Success:            true,
		RecordsUpdated:     10,
		RefreshCompletedAt: 1000,
	})
	require.NoError(t, err)
	err = store.LogRefresh(ctx, db.InsertRefreshLogParams{
		DataType:           "games",
		DivisionID:         "d12",
		Success:            false,
		ErrorMessage:       "fetch team list: connection refused",
		RefreshCompletedAt: 2000,
	})
	require.NoError(t, err)

	latest, err := store.GetLatestRefresh(ctx, "games", "d12")
	require.NoError(t, err)
	require.False(t, latest.Success)
	require.EqualValues(t, 2000, latest.RefreshCompletedAt)

	// no division filter returns the newest row of the data type
	latest, err = store.GetLatestRefresh(ctx, "games", "")
	require.NoError(t, err)
	require.EqualValues(t, 2000, latest.RefreshCompletedAt)
}

func TestForceRefreshFlag(t *testing.T) {
	store := setupStore(t)
	seedSeason(t, store)
	ctx := context.Background()

	force, err := store.ShouldForceRefresh(ctx)
	require.NoError(t, err)
	require.False(t, force)

	require.NoError(t, store.SetForceRefresh(ctx, true))
	force, err = store.ShouldForceRefresh(ctx)
	require.NoError(t, err)
	require.True(t, force)

	require.NoError(t, store.SetForceRefresh(ctx, false))
	force, err = store.ShouldForceRefresh(ctx)
	require.NoError(t, err)
	require.False(t, force)
}
