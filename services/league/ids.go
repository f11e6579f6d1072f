package league

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// FieldID derives the stable row id for a venue from its display
// name, e.g. "Burr Jones Field" -> "burr-jones-field". venue names
// are the only identity the schedule pages expose consistently.
func FieldID(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return whitespaceRun.ReplaceAllString(name, "-")
}

// GameID derives the deterministic fixture id. the team pair is
// sorted so that scraping either side's schedule page resolves to
// the same row, which is what makes the upsert conflict-based
// instead of duplicating.
func GameID(divisionID, teamA, teamB string, date time.Time) string {
	if teamB < teamA {
		teamA, teamB = teamB, teamA
	}
	return fmt.Sprintf("game-%s-%s-%s-%s", divisionID, teamA, teamB, date.Format("2006-01-02"))
}
