package db

import "context"

const getCurrentSeason = `
SELECT id, name, season_year, start_date, end_date, is_current, force_refresh, last_full_scrape
FROM seasons
WHERE is_current = TRUE
LIMIT 1
`

func (q *Queries) GetCurrentSeason(ctx context.Context) (Season, error) {
	row := q.db.QueryRowContext(ctx, getCurrentSeason)
	var s Season
	err := row.Scan(
		&s.ID, &s.Name, &s.SeasonYear, &s.StartDate, &s.EndDate,
		&s.IsCurrent, &s.ForceRefresh, &s.LastFullScrape,
	)
	return s, err
}

const upsertSeason = `
INSERT INTO seasons (id, name, season_year, start_date, end_date, is_current)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	name = excluded.name,
	season_year = excluded.season_year,
	start_date = excluded.start_date,
	end_date = excluded.end_date,
	is_current = excluded.is_current
`

type UpsertSeasonParams struct {
	ID         string
	Name       string
	SeasonYear int64
	StartDate  string
	EndDate    string
	IsCurrent  bool
}

func (q *Queries) UpsertSeason(ctx context.Context, arg UpsertSeasonParams) error {
	_, err := q.db.ExecContext(ctx, upsertSeason,
		arg.ID, arg.Name, arg.SeasonYear, arg.StartDate, arg.EndDate, arg.IsCurrent,
	)
	return err
}

const clearOtherCurrentSeasons = `
UPDATE seasons SET is_current = FALSE WHERE id != ?
`

// exactly one season may be current at a time
func (q *Queries) ClearOtherCurrentSeasons(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, clearOtherCurrentSeasons, id)
	return err
}

const setForceRefresh = `
UPDATE seasons SET force_refresh = ? WHERE is_current = TRUE
`

func (q *Queries) SetForceRefresh(ctx context.Context, enabled bool) error {
	_, err := q.db.ExecContext(ctx, setForceRefresh, enabled)
	return err
}

const markFullScrape = `
UPDATE seasons SET last_full_scrape = ? WHERE id = ?
`

type MarkFullScrapeParams struct {
	LastFullScrape int64
	ID             string
}

func (q *Queries) MarkFullScrape(ctx context.Context, arg MarkFullScrapeParams) error {
	_, err := q.db.ExecContext(ctx, markFullScrape, arg.LastFullScrape, arg.ID)
	return err
}
