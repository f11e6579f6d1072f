package league

import (
	"sort"
	"time"

	"mufa-backend/services/league/db"
)

// how old a team's schedule data may get before it is re-fetched
const DefaultMaxAge = 120 * time.Minute

// SelectDue filters the teams in scope down to the ones whose
// schedule data is stale at `now`. a team that has never been scraped
// is always due and sorts before every timestamped team, so that
// interrupted runs still cover the least-seen teams first. `force`
// is the manual full-resync escape hatch: it returns every team in
// scope regardless of timestamps and is never triggered by the
// staleness check itself; the caller owns setting and clearing it.
func SelectDue(teams []db.Team, maxAge time.Duration, now time.Time, force bool) []db.Team {
	cutoff := now.Add(-maxAge).Unix()

	var due []db.Team
	for _, t := range teams {
		if force || !t.LastScraped.Valid || t.LastScraped.Int64 < cutoff {
			due = append(due, t)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if a.LastScraped.Valid != b.LastScraped.Valid {
			return !a.LastScraped.Valid
		}
		return a.LastScraped.Int64 < b.LastScraped.Int64
	})

	return due
}
