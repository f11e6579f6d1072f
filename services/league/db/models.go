package db

import "database/sql"

type Season struct {
	ID             string
	Name           string
	SeasonYear     int64
	StartDate      string
	EndDate        string
	IsCurrent      bool
	ForceRefresh   bool
	LastFullScrape sql.NullInt64
}

type Division struct {
	ID       string
	SeasonID string
	Name     string
	IsActive bool
}

type Team struct {
	ID          string
	DivisionID  string
	Name        string
	JerseyColor string
	IsActive    bool
	LastScraped sql.NullInt64
	UpdatedAt   int64
}

type Field struct {
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

type Game struct {
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

type RefreshLog struct {
	ID                 int64
	DataType           string
	DivisionID         string
	Success            bool
	RecordsUpdated     int64
	ErrorMessage       string
	DurationMs         int64
	RefreshCompletedAt int64
}

// one row of a team's rendered schedule, with opponent and venue
// details joined in for display
type ScheduleRow struct {
	Game
	TeamAName       string
	TeamBName       string
	FieldName       string
	FieldAddress    string
	FieldMapUrl     string
	FieldDiagramUrl string
}
