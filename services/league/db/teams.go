package db

import (
	"context"
	"database/sql"
)

const upsertTeam = `
INSERT INTO teams (id, division_id, name, jersey_color, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	division_id = excluded.division_id,
	name = excluded.name,
	jersey_color = CASE
		WHEN excluded.jersey_color IN ('', 'Unknown') THEN teams.jersey_color
		ELSE excluded.jersey_color
	END,
	updated_at = excluded.updated_at
`

type UpsertTeamParams struct {
	ID          string
	DivisionID  string
	Name        string
	JerseyColor string
	UpdatedAt   int64
}

func (q *Queries) UpsertTeam(ctx context.Context, arg UpsertTeamParams) error {
	_, err := q.db.ExecContext(ctx, upsertTeam,
		arg.ID, arg.DivisionID, arg.Name, arg.JerseyColor, arg.UpdatedAt,
	)
	return err
}

const getTeam = `
SELECT id, division_id, name, jersey_color, is_active, last_scraped, updated_at
FROM teams
WHERE id = ?
`

func (q *Queries) GetTeam(ctx context.Context, id string) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeam, id)
	var t Team
	err := row.Scan(
		&t.ID, &t.DivisionID, &t.Name, &t.JerseyColor,
		&t.IsActive, &t.LastScraped, &t.UpdatedAt,
	)
	return t, err
}

const listTeams = `
SELECT id, division_id, name, jersey_color, is_active, last_scraped, updated_at
FROM teams
WHERE division_id = ? AND is_active = TRUE
ORDER BY name
`

func (q *Queries) ListTeams(ctx context.Context, divisionID string) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listTeams, divisionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeams(rows)
}

const listAllActiveTeams = `
SELECT t.id, t.division_id, t.name, t.jersey_color, t.is_active, t.last_scraped, t.updated_at
FROM teams t
JOIN divisions d ON t.division_id = d.id
JOIN seasons s ON d.season_id = s.id
WHERE t.is_active = TRUE AND d.is_active = TRUE AND s.is_current = TRUE
ORDER BY d.id, t.name
`

func (q *Queries) ListAllActiveTeams(ctx context.Context) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listAllActiveTeams)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeams(rows)
}

const listStaleTeams = `
SELECT id, division_id, name, jersey_color, is_active, last_scraped, updated_at
FROM teams
WHERE division_id = ? AND is_active = TRUE
	AND (last_scraped IS NULL OR last_scraped < ?)
ORDER BY last_scraped ASC NULLS FIRST, id
`

type ListStaleTeamsParams struct {
	DivisionID string
	Cutoff     int64
}

// teams that have never been scraped sort first so that partial runs
// still make forward progress evenly
func (q *Queries) ListStaleTeams(ctx context.Context, arg ListStaleTeamsParams) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listStaleTeams, arg.DivisionID, arg.Cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeams(rows)
}

const markTeamScraped = `
UPDATE teams SET last_scraped = ? WHERE id = ?
`

type MarkTeamScrapedParams struct {
	LastScraped int64
	ID          string
}

func (q *Queries) MarkTeamScraped(ctx context.Context, arg MarkTeamScrapedParams) error {
	_, err := q.db.ExecContext(ctx, markTeamScraped, arg.LastScraped, arg.ID)
	return err
}

func scanTeams(rows *sql.Rows) ([]Team, error) {
	var teams []Team
	for rows.Next() {
		var t Team
		err := rows.Scan(
			&t.ID, &t.DivisionID, &t.Name, &t.JerseyColor,
			&t.IsActive, &t.LastScraped, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}
