package db

import "context"

const upsertField = `
INSERT INTO fields (id, mufa_id, name, address, map_url, diagram_url, parking_info, notes, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	mufa_id = COALESCE(NULLIF(excluded.mufa_id, ''), fields.mufa_id),
	name = excluded.name,
	address = COALESCE(NULLIF(excluded.address, ''), fields.address),
	map_url = COALESCE(NULLIF(excluded.map_url, ''), fields.map_url),
	diagram_url = COALESCE(NULLIF(excluded.diagram_url, ''), fields.diagram_url),
	parking_info = COALESCE(NULLIF(excluded.parking_info, ''), fields.parking_info),
	notes = COALESCE(NULLIF(excluded.notes, ''), fields.notes),
	updated_at = excluded.updated_at
`

type UpsertFieldParams struct {
	ID          string
	MufaID      string
	Name        string
	Address     string
	MapUrl      string
	DiagramUrl  string
	ParkingInfo string
	Notes       string
	UpdatedAt   int64
}

// optional attributes merge rather than clobber, an incomplete record
// reapplied out of order must never blank out details discovered by an
// earlier enrichment pass
func (q *Queries) UpsertField(ctx context.Context, arg UpsertFieldParams) error {
	_, err := q.db.ExecContext(ctx, upsertField,
		arg.ID, arg.MufaID, arg.Name, arg.Address, arg.MapUrl,
		arg.DiagramUrl, arg.ParkingInfo, arg.Notes, arg.UpdatedAt,
	)
	return err
}

const getField = `
SELECT id, mufa_id, name, address, map_url, diagram_url, parking_info, notes, updated_at
FROM fields
WHERE id = ?
`

func (q *Queries) GetField(ctx context.Context, id string) (Field, error) {
	row := q.db.QueryRowContext(ctx, getField, id)
	var f Field
	err := row.Scan(
		&f.ID, &f.MufaID, &f.Name, &f.Address, &f.MapUrl,
		&f.DiagramUrl, &f.ParkingInfo, &f.Notes, &f.UpdatedAt,
	)
	return f, err
}

const listFields = `
SELECT id, mufa_id, name, address, map_url, diagram_url, parking_info, notes, updated_at
FROM fields
ORDER BY name
`

func (q *Queries) ListFields(ctx context.Context) ([]Field, error) {
	rows, err := q.db.QueryContext(ctx, listFields)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []Field
	for rows.Next() {
		var f Field
		err := rows.Scan(
			&f.ID, &f.MufaID, &f.Name, &f.Address, &f.MapUrl,
			&f.DiagramUrl, &f.ParkingInfo, &f.Notes, &f.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
