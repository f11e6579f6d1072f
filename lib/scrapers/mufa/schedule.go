package mufa

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"mufa-backend/lib/htmlutil"
	"mufa-backend/lib/timezone"

	"github.com/PuerkitoBio/goquery"
)

type Game struct {
	TeamId       string
	OpponentId   string
	OpponentName string
	FieldId      string
	FieldName    string
	StartsAt     time.Time
	IsComplete   bool
}

type ScheduleOptions struct {
	// the year fixtures belong to. schedule rows only carry month and
	// day, so resolving against the wall-clock year would corrupt
	// off-season and historical scrapes.
	SeasonYear int
}

// e.g. "Tue, Jun-02 7:30 PM"
var fixtureDateTime = regexp.MustCompile(
	`([A-Za-z]{3}),\s*([A-Za-z]{3})-(\d{1,2})\s+(\d{1,2}):(\d{2})\s*([AP]M)`,
)

var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// parses the compound date/time string found on schedule rows into a
// timestamp in the league's timezone, anchored to the given year.
func ParseFixtureDateTime(s string, year int) (time.Time, error) {
	match := fixtureDateTime.FindStringSubmatch(s)
	if match == nil {
		return time.Time{}, fmt.Errorf("unrecognized fixture date/time: %q", s)
	}

	month, ok := months[match[2]]
	if !ok {
		return time.Time{}, fmt.Errorf("unrecognized month abbreviation: %q", match[2])
	}
	day, _ := strconv.Atoi(match[3])
	hour, _ := strconv.Atoi(match[4])
	minute, _ := strconv.Atoi(match[5])

	if match[6] == "PM" && hour != 12 {
		hour += 12
	}
	if match[6] == "AM" && hour == 12 {
		hour = 0
	}

	return time.Date(year, month, day, hour, minute, 0, 0, timezone.Location), nil
}

// ordered fallback chain for resolving a fixture's venue, tried in
// sequence until one matches. an empty result means TBD.
var fieldStrategies = []func(row *goquery.Selection) (id, name string, ok bool){
	fieldFromAnchor,
	fieldFromVenueKeywords,
}

func fieldFromAnchor(row *goquery.Selection) (string, string, bool) {
	link := row.Find(`a[href*="Field.aspx?f="]`).First()
	if link.Length() == 0 {
		return "", "", false
	}
	name := htmlutil.CleanText(link.Text())
	if name == "" {
		return "", "", false
	}
	return htmlutil.NumericQueryParam(link.AttrOr("href", ""), "f"), name, true
}

var venueKeywords = []string{
	"Field", "Park", "School", "Memorial",
	"North", "South", "East", "West", "Madison",
}

func fieldFromVenueKeywords(row *goquery.Selection) (string, string, bool) {
	var name string
	row.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		text := htmlutil.CleanText(div.Text())
		for _, keyword := range venueKeywords {
			if strings.Contains(text, keyword) {
				name = text
				return false
			}
		}
		return true
	})
	if name == "" {
		return "", "", false
	}
	return "", name, true
}

// pulls every fixture row off a team schedule page. rows with an
// unparseable date or no resolvable opponent are skipped rather than
// failing the page, the markup regularly carries partial rows.
func ExtractGames(html string, team Team, opts ScheduleOptions) ([]Game, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var games []Game
	doc.Find(".clickable-row").Each(func(_ int, row *goquery.Selection) {
		startsAt, err := ParseFixtureDateTime(
			row.Find("strong").First().Text(),
			opts.SeasonYear,
		)
		if err != nil {
			return
		}

		opponentLink := row.Find(`a[href*="Team.aspx?t="]`).First()
		opponentName := htmlutil.CleanText(opponentLink.Text())
		opponentId := htmlutil.NumericQueryParam(opponentLink.AttrOr("href", ""), "t")
		if opponentName == "" || opponentId == "" {
			return
		}

		var fieldId, fieldName string
		for _, strategy := range fieldStrategies {
			id, name, ok := strategy(row)
			if ok {
				fieldId, fieldName = id, name
				break
			}
		}

		games = append(games, Game{
			TeamId:       team.Id,
			OpponentId:   opponentId,
			OpponentName: opponentName,
			FieldId:      fieldId,
			FieldName:    fieldName,
			StartsAt:     startsAt,
			IsComplete:   isCompletedFixture(row),
		})
	})

	return games, nil
}

// completed fixtures carry a won/lost tooltip marker
func isCompletedFixture(row *goquery.Selection) bool {
	title := row.Find(`span[data-toggle="tooltip"]`).AttrOr("title", "")
	return strings.Contains(title, "Won") || strings.Contains(title, "Lost")
}
