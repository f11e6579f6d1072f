package db

import "context"

const insertRefreshLog = `
INSERT INTO data_refresh_log (data_type, division_id, success, records_updated, error_message, duration_ms, refresh_completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type InsertRefreshLogParams struct {
	DataType           string
	DivisionID         string
	Success            bool
	RecordsUpdated     int64
	ErrorMessage       string
	DurationMs         int64
	RefreshCompletedAt int64
}

func (q *Queries) InsertRefreshLog(ctx context.Context, arg InsertRefreshLogParams) error {
	_, err := q.db.ExecContext(ctx, insertRefreshLog,
		arg.DataType, arg.DivisionID, arg.Success, arg.RecordsUpdated,
		arg.ErrorMessage, arg.DurationMs, arg.RefreshCompletedAt,
	)
	return err
}

const getLatestRefresh = `
SELECT id, data_type, division_id, success, records_updated, error_message, duration_ms, refresh_completed_at
FROM data_refresh_log
WHERE data_type = ? AND (? = '' OR division_id = ?)
ORDER BY refresh_completed_at DESC, id DESC
LIMIT 1
`

type GetLatestRefreshParams struct {
	DataType   string
	DivisionID string
}

func (q *Queries) GetLatestRefresh(ctx context.Context, arg GetLatestRefreshParams) (RefreshLog, error) {
	row := q.db.QueryRowContext(ctx, getLatestRefresh,
		arg.DataType, arg.DivisionID, arg.DivisionID,
	)
	var l RefreshLog
	err := row.Scan(
		&l.ID, &l.DataType, &l.DivisionID, &l.Success, &l.RecordsUpdated,
		&l.ErrorMessage, &l.DurationMs, &l.RefreshCompletedAt,
	)
	return l, err
}
