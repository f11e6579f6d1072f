package league

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"mufa-backend/lib/scrapers/mufa"
	"mufa-backend/lib/timezone"
	"mufa-backend/services/league/db"
)

const teamListPage = `<html><body>
<div class="dropdown-menu"><a class="bg-primary">Summer 2025</a></div>
<a href="/League/Division/Team.aspx?t=100&d=12">Disc Jockeys</a>
<a href="/League/Division/Team.aspx?t=200&d=12">Huckleberries</a>
<a href="/League/Division/Team.aspx?t=300&d=12">Mad Rollers</a>
</body></html>`

const schedulePage = `<html><body>
<div class="clickable-row">
	<div><strong>Tue, Jun-02 7:30 PM</strong></div>
	<div><a href="/League/Division/Team.aspx?t=200&d=12">Huckleberries</a></div>
	<div><a href="/League/Division/Field.aspx?f=42&d=12">Burr Jones Field</a></div>
</div>
<div class="clickable-row">
	<div><strong>Tue, Jun-09 6:15 PM</strong></div>
	<div><a href="/League/Division/Team.aspx?t=300&d=12">Mad Rollers</a></div>
	<div><a href="/League/Division/Field.aspx?f=7&d=12">Warner Park East</a></div>
</div>
</body></html>`

const emptySchedulePage = `<html><body><p>No games scheduled.</p></body></html>`

type fixtureRow struct {
	when     string
	opponent string
	name     string
	field    string
}

func schedulePageOf(rows ...fixtureRow) string {
	page := "<html><body>\n"
	for _, row := range rows {
		page += fmt.Sprintf(`<div class="clickable-row">
	<div><strong>%s</strong></div>
	<div><a href="/League/Division/Team.aspx?t=%s&d=12">%s</a></div>
	<div>%s</div>
</div>
`, row.when, row.opponent, row.name, row.field)
	}
	return page + "</body></html>"
}

// scrapeServer fakes the league site and counts requests per path so
// tests can assert which pages a run actually touched.
type scrapeServer struct {
	*httptest.Server

	mu    sync.Mutex
	hits  map[string]int
	fail  map[string]bool
	pages map[string]string
}

func newScrapeServer(t *testing.T) *scrapeServer {
	s := &scrapeServer{
		hits:  map[string]int{},
		fail:  map[string]bool{},
		pages: map[string]string{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path + "?" + r.URL.RawQuery

		s.mu.Lock()
		s.hits[key]++
		failed := s.fail[key]
		page, ok := s.pages[key]
		s.mu.Unlock()

		if failed {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(page))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *scrapeServer) serve(key, page string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[key] = page
}

func (s *scrapeServer) failWith500(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[key] = true
}

func (s *scrapeServer) hitCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

func setupOrchestrator(t *testing.T) (Orchestrator, *scrapeServer) {
	store := setupStore(t)
	server := newScrapeServer(t)
	client := mufa.NewClient(mufa.ClientOptions{BaseUrl: server.URL})
	return NewOrchestrator(client, store, DefaultMaxAge), server
}

func TestRefreshAllDiscoversTeams(t *testing.T) {
	o, server := setupOrchestrator(t)
	seedSeason(t, o.Store)
	ctx := context.Background()

	burrJones := `<a href="/League/Division/Field.aspx?f=42&d=12">Burr Jones Field</a>`
	warnerPark := `<a href="/League/Division/Field.aspx?f=7&d=12">Warner Park East</a>`

	server.serve("/League/Division/HomeArticle.aspx?d=d12", teamListPage)
	server.serve("/League/Division/Team.aspx?t=100&d=d12", schedulePageOf(
		fixtureRow{"Tue, Jun-02 7:30 PM", "200", "Huckleberries", burrJones},
		fixtureRow{"Tue, Jun-09 6:15 PM", "300", "Mad Rollers", warnerPark},
	))
	server.serve("/League/Division/Team.aspx?t=200&d=d12", schedulePageOf(
		fixtureRow{"Tue, Jun-02 7:30 PM", "100", "Disc Jockeys", burrJones},
		fixtureRow{"Tue, Jun-16 7:30 PM", "300", "Mad Rollers", burrJones},
	))
	server.serve("/League/Division/Team.aspx?t=300&d=d12", schedulePageOf(
		fixtureRow{"Tue, Jun-09 6:15 PM", "100", "Disc Jockeys", warnerPark},
		fixtureRow{"Tue, Jun-16 7:30 PM", "200", "Huckleberries", burrJones},
	))

	summary, err := o.RefreshAll(ctx)
	require.NoError(t, err)
	require.NoError(t, summary.Err())
	require.Len(t, summary.Divisions, 1)
	require.Equal(t, 3, summary.Divisions[0].TeamsScraped)

	teams, err := o.Store.GetTeams(ctx, "d12")
	require.NoError(t, err)
	require.Len(t, teams, 3)
	for _, team := range teams {
		require.True(t, team.LastScraped.Valid, "team %s missing last_scraped", team.ID)
	}

	// each fixture shows up on both teams' pages but resolves to a
	// single row
	count, err := o.Store.Queries().CountGames(ctx, "d12")
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	latest, err := o.Store.GetLatestRefresh(ctx, "games", "d12")
	require.NoError(t, err)
	require.True(t, latest.Success)
}

func TestRefreshAllIsolatesTeamFailure(t *testing.T) {
	o, server := setupOrchestrator(t)
	seedSeason(t, o.Store)
	ctx := context.Background()

	err := o.Store.ReconcileTeams(ctx, []mufa.Team{
		{Id: "100", DivisionId: "d12", Name: "Disc Jockeys"},
		{Id: "200", DivisionId: "d12", Name: "Huckleberries"},
		{Id: "300", DivisionId: "d12", Name: "Mad Rollers"},
	})
	require.NoError(t, err)

	server.serve("/League/Division/Team.aspx?t=100&d=d12", schedulePage)
	server.failWith500("/League/Division/Team.aspx?t=200&d=d12")
	server.serve("/League/Division/Team.aspx?t=300&d=d12", schedulePage)

	summary, err := o.RefreshAll(ctx)
	require.NoError(t, err)
	require.Error(t, summary.Err())
	require.Equal(t, 2, summary.Divisions[0].TeamsScraped)

	// the failed team keeps its place at the front of the stale queue
	stale, err := o.Store.GetStaleTeams(ctx, "d12", DefaultMaxAge)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	require.Equal(t, "200", stale[0].ID)
}

func TestRefreshAllSkipsFreshTeams(t *testing.T) {
	o, server := setupOrchestrator(t)
	seedSeason(t, o.Store)
	ctx := context.Background()

	err := o.Store.ReconcileTeams(ctx, []mufa.Team{
		{Id: "100", DivisionId: "d12", Name: "Disc Jockeys"},
		{Id: "200", DivisionId: "d12", Name: "Huckleberries"},
	})
	require.NoError(t, err)
	require.NoError(t, o.Store.MarkTeamScraped(ctx, "100", timezone.Now()))

	server.serve("/League/Division/Team.aspx?t=100&d=d12", schedulePage)
	server.serve("/League/Division/Team.aspx?t=200&d=d12", schedulePage)

	summary, err := o.RefreshAll(ctx)
	require.NoError(t, err)
	require.NoError(t, summary.Err())

	require.Equal(t, 0, server.hitCount("/League/Division/Team.aspx?t=100&d=d12"))
	require.Equal(t, 1, server.hitCount("/League/Division/Team.aspx?t=200&d=d12"))
}

func TestRefreshAllForceClearsFlag(t *testing.T) {
	o, server := setupOrchestrator(t)
	seedSeason(t, o.Store)
	ctx := context.Background()

	err := o.Store.ReconcileTeams(ctx, []mufa.Team{
		{Id: "100", DivisionId: "d12", Name: "Disc Jockeys"},
	})
	require.NoError(t, err)
	// fresh, would be skipped without the flag
	require.NoError(t, o.Store.MarkTeamScraped(ctx, "100", timezone.Now()))
	require.NoError(t, o.Store.SetForceRefresh(ctx, true))

	server.serve("/League/Division/Team.aspx?t=100&d=d12", schedulePage)

	summary, err := o.RefreshAll(ctx)
	require.NoError(t, err)
	require.True(t, summary.Forced)
	require.Equal(t, 1, server.hitCount("/League/Division/Team.aspx?t=100&d=d12"))

	force, err := o.Store.ShouldForceRefresh(ctx)
	require.NoError(t, err)
	require.False(t, force)

	season, err := o.Store.GetCurrentSeason(ctx)
	require.NoError(t, err)
	require.True(t, season.LastFullScrape.Valid)
}

func TestRefreshAllNoSeason(t *testing.T) {
	o, _ := setupOrchestrator(t)
	ctx := context.Background()

	_, err := o.RefreshAll(ctx)
	require.ErrorIs(t, err, ErrNoCurrentSeason)

	latest, err := o.Store.GetLatestRefresh(ctx, "games", "")
	require.NoError(t, err)
	require.False(t, latest.Success)
	require.NotEmpty(t, latest.ErrorMessage)
}

func TestRefreshAllNoDivisions(t *testing.T) {
	o, _ := setupOrchestrator(t)
	ctx := context.Background()

	err := o.Store.Queries().UpsertSeason(ctx, db.UpsertSeasonParams{
		ID:         "summer-2025",
		Name:       "Summer 2025",
		SeasonYear: 2025,
		IsCurrent:  true,
	})
	require.NoError(t, err)

	_, err = o.RefreshAll(ctx)
	require.ErrorIs(t, err, ErrNoDivisions)
}

func TestRefreshAllFlagsParseFailure(t *testing.T) {
	o, server := setupOrchestrator(t)
	seedSeason(t, o.Store)
	ctx := context.Background()

	err := o.Store.ReconcileTeams(ctx, []mufa.Team{
		{Id: "100", DivisionId: "d12", Name: "Disc Jockeys"},
		{Id: "200", DivisionId: "d12", Name: "Huckleberries"},
	})
	require.NoError(t, err)

	// pages fetch fine but carry no fixture rows, which looks like a
	// site markup change rather than an idle division
	server.serve("/League/Division/Team.aspx?t=100&d=d12", emptySchedulePage)
	server.serve("/League/Division/Team.aspx?t=200&d=d12", emptySchedulePage)

	summary, err := o.RefreshAll(ctx)
	require.NoError(t, err)
	require.ErrorIs(t, summary.Err(), ErrParseFailure)

	latest, err := o.Store.GetLatestRefresh(ctx, "games", "d12")
	require.NoError(t, err)
	require.False(t, latest.Success)
}

func TestRefreshSchedules(t *testing.T) {
	o, server := setupOrchestrator(t)
	seedSeason(t, o.Store)
	ctx := context.Background()

	err := o.Store.ReconcileTeams(ctx, []mufa.Team{
		{Id: "100", DivisionId: "d12", Name: "Disc Jockeys"},
	})
	require.NoError(t, err)
	// the fast path ignores staleness entirely
	require.NoError(t, o.Store.MarkTeamScraped(ctx, "100", timezone.Now()))

	server.serve("/League/Division/Team.aspx?t=100&d=d12", schedulePage)

	summary, err := o.RefreshSchedules(ctx)
	require.NoError(t, err)
	require.NoError(t, summary.Err())
	require.Equal(t, 1, server.hitCount("/League/Division/Team.aspx?t=100&d=d12"))

	latest, err := o.Store.GetLatestRefresh(ctx, "schedules-only", "")
	require.NoError(t, err)
	require.True(t, latest.Success)
}

func TestRefreshFields(t *testing.T) {
	o, server := setupOrchestrator(t)
	seedSeason(t, o.Store)
	ctx := context.Background()

	server.serve("/League/Division/FieldList.aspx?d=d12", `<html><body>
		<a href="/League/Division/Field.aspx?f=42&d=d12">Burr Jones Field</a>
		<a href="/League/Division/Field.aspx?f=7&d=d12">Warner Park East</a>
	</body></html>`)
	server.serve("/League/Division/Field.aspx?f=42&d=d12", `<html><body>
		<p>1119 E Washington Ave, Madison, WI 53703</p>
		<img src="/uploads/parks/burr-jones.png">
		<p>Parking: lot on the east side</p>
	</body></html>`)
	// detail page down, listing data still lands
	server.failWith500("/League/Division/Field.aspx?f=7&d=d12")

	err := o.RefreshFields(ctx)
	require.NoError(t, err)

	enriched, err := o.Store.Queries().GetField(ctx, FieldID("Burr Jones Field"))
	require.NoError(t, err)
	require.Equal(t, "1119 E Washington Ave, Madison, WI 53703", enriched.Address)
	require.NotEmpty(t, enriched.DiagramUrl)

	degraded, err := o.Store.Queries().GetField(ctx, FieldID("Warner Park East"))
	require.NoError(t, err)
	require.Empty(t, degraded.Address)
	require.Contains(t, degraded.MapUrl, "Warner+Park+East")

	latest, err := o.Store.GetLatestRefresh(ctx, "fields", "")
	require.NoError(t, err)
	require.True(t, latest.Success)
	require.EqualValues(t, 2, latest.RecordsUpdated)
}

func TestRefreshAllSchedulesNextRun(t *testing.T) {
	o, server := setupOrchestrator(t)
	seedSeason(t, o.Store)
	ctx := context.Background()

	server.serve("/League/Division/HomeArticle.aspx?d=d12", teamListPage)
	server.serve("/League/Division/Team.aspx?t=100&d=d12", schedulePage)
	server.serve("/League/Division/Team.aspx?t=200&d=d12", schedulePage)
	server.serve("/League/Division/Team.aspx?t=300&d=d12", schedulePage)

	_, err := o.RefreshAll(ctx)
	require.NoError(t, err)

	// an immediate second run finds everything fresh and stays off
	// the network
	_, err = o.RefreshAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, server.hitCount("/League/Division/Team.aspx?t=100&d=d12"))
	require.Equal(t, 1, server.hitCount("/League/Division/HomeArticle.aspx?d=d12"))
}
