package league

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"mufa-backend/services/league/db"
)

type scheduleKey struct {
	TeamID     string
	DivisionID string
}

// scheduleCache keeps recently served schedules out of sqlite. Entries
// expire on their own; a forced refresh purges the whole cache so a
// fresh scrape is visible immediately.
type scheduleCache struct {
	lru *expirable.LRU[scheduleKey, []db.ScheduleRow]
}

func newScheduleCache(size int, ttl time.Duration) scheduleCache {
	if size <= 0 {
		size = 512
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return scheduleCache{
		lru: expirable.NewLRU[scheduleKey, []db.ScheduleRow](size, nil, ttl),
	}
}

func (c scheduleCache) Get(teamID, divisionID string) ([]db.ScheduleRow, bool) {
	return c.lru.Get(scheduleKey{TeamID: teamID, DivisionID: divisionID})
}

func (c scheduleCache) Set(teamID, divisionID string, rows []db.ScheduleRow) {
	c.lru.Add(scheduleKey{TeamID: teamID, DivisionID: divisionID}, rows)
}

func (c scheduleCache) Purge() {
	c.lru.Purge()
}
