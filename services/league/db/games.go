package db

import "context"

const upsertGame = `
INSERT INTO games (id, division_id, team_a_id, team_b_id, field_id, game_date, game_time, is_complete, last_updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	field_id = CASE
		WHEN excluded.field_id = '' THEN games.field_id
		ELSE excluded.field_id
	END,
	game_time = excluded.game_time,
	is_complete = excluded.is_complete,
	last_updated = excluded.last_updated
`

type UpsertGameParams struct {
	ID          string
	DivisionID  string
	TeamAID     string
	TeamBID     string
	FieldID     string
	GameDate    string
	GameTime    string
	IsComplete  bool
	LastUpdated int64
}

// the deterministic id makes this safe to reapply, conflicting rows
// only ever refresh their mutable columns
func (q *Queries) UpsertGame(ctx context.Context, arg UpsertGameParams) error {
	_, err := q.db.ExecContext(ctx, upsertGame,
		arg.ID, arg.DivisionID, arg.TeamAID, arg.TeamBID, arg.FieldID,
		arg.GameDate, arg.GameTime, arg.IsComplete, arg.LastUpdated,
	)
	return err
}

const getGame = `
SELECT id, division_id, team_a_id, team_b_id, field_id, game_date, game_time, is_complete, last_updated
FROM games
WHERE id = ?
`

func (q *Queries) GetGame(ctx context.Context, id string) (Game, error) {
	row := q.db.QueryRowContext(ctx, getGame, id)
	var g Game
	err := row.Scan(
		&g.ID, &g.DivisionID, &g.TeamAID, &g.TeamBID, &g.FieldID,
		&g.GameDate, &g.GameTime, &g.IsComplete, &g.LastUpdated,
	)
	return g, err
}

const countGames = `
SELECT COUNT(*) FROM games WHERE division_id = ?
`

func (q *Queries) CountGames(ctx context.Context, divisionID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countGames, divisionID)
	var n int64
	err := row.Scan(&n)
	return n, err
}

const listTeamSchedule = `
SELECT
	g.id, g.division_id, g.team_a_id, g.team_b_id, g.field_id,
	g.game_date, g.game_time, g.is_complete, g.last_updated,
	COALESCE(ta.name, '') AS team_a_name,
	COALESCE(tb.name, '') AS team_b_name,
	COALESCE(f.name, '') AS field_name,
	COALESCE(f.address, '') AS field_address,
	COALESCE(f.map_url, '') AS field_map_url,
	COALESCE(f.diagram_url, '') AS field_diagram_url
FROM games g
LEFT JOIN teams ta ON g.team_a_id = ta.id
LEFT JOIN teams tb ON g.team_b_id = tb.id
LEFT JOIN fields f ON g.field_id = f.id
WHERE (g.team_a_id = ? OR g.team_b_id = ?) AND g.division_id = ?
ORDER BY g.game_date ASC, g.game_time ASC
`

type ListTeamScheduleParams struct {
	TeamID     string
	DivisionID string
}

func (q *Queries) ListTeamSchedule(ctx context.Context, arg ListTeamScheduleParams) ([]ScheduleRow, error) {
	rows, err := q.db.QueryContext(ctx, listTeamSchedule,
		arg.TeamID, arg.TeamID, arg.DivisionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedule []ScheduleRow
	for rows.Next() {
		var r ScheduleRow
		err := rows.Scan(
			&r.ID, &r.DivisionID, &r.TeamAID, &r.TeamBID, &r.FieldID,
			&r.GameDate, &r.GameTime, &r.IsComplete, &r.LastUpdated,
			&r.TeamAName, &r.TeamBName,
			&r.FieldName, &r.FieldAddress, &r.FieldMapUrl, &r.FieldDiagramUrl,
		)
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, r)
	}
	return schedule, rows.Err()
}
