package db

import "context"

const upsertDivision = `
INSERT INTO divisions (id, season_id, name, is_active)
VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	season_id = excluded.season_id,
	name = excluded.name,
	is_active = excluded.is_active
`

type UpsertDivisionParams struct {
	ID       string
	SeasonID string
	Name     string
	IsActive bool
}

func (q *Queries) UpsertDivision(ctx context.Context, arg UpsertDivisionParams) error {
	_, err := q.db.ExecContext(ctx, upsertDivision,
		arg.ID, arg.SeasonID, arg.Name, arg.IsActive,
	)
	return err
}

const listDivisions = `
SELECT id, season_id, name, is_active
FROM divisions
WHERE season_id = ? AND is_active = TRUE
ORDER BY name
`

func (q *Queries) ListDivisions(ctx context.Context, seasonID string) ([]Division, error) {
	rows, err := q.db.QueryContext(ctx, listDivisions, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var divisions []Division
	for rows.Next() {
		var d Division
		err := rows.Scan(&d.ID, &d.SeasonID, &d.Name, &d.IsActive)
		if err != nil {
			return nil, err
		}
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}

const listCurrentDivisions = `
SELECT d.id, d.season_id, d.name, d.is_active
FROM divisions d
JOIN seasons s ON d.season_id = s.id
WHERE s.is_current = TRUE AND d.is_active = TRUE
ORDER BY d.name
`

func (q *Queries) ListCurrentDivisions(ctx context.Context) ([]Division, error) {
	rows, err := q.db.QueryContext(ctx, listCurrentDivisions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var divisions []Division
	for rows.Next() {
		var d Division
		err := rows.Scan(&d.ID, &d.SeasonID, &d.Name, &d.IsActive)
		if err != nil {
			return nil, err
		}
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}
