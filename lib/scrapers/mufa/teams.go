package mufa

import (
	"strings"

	"mufa-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type Team struct {
	Id         string
	DivisionId string
	Name       string
	// the division article page does not expose jerseys, so this
	// stays "Unknown" until someone fills it in by hand
	JerseyColor string
}

// pulls every team anchor off a division article page. anchors
// without a numeric team id or with throwaway link text are skipped,
// the markup has plenty of both and neither is an error.
func ExtractTeams(html string, divisionId string) ([]Team, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var teams []Team
	seen := map[string]bool{}

	doc.Find(`a[href*="Team.aspx?t="]`).Each(func(_ int, link *goquery.Selection) {
		href := link.AttrOr("href", "")
		name := htmlutil.CleanText(link.Text())
		if href == "" || len(name) <= 2 {
			return
		}

		teamId := htmlutil.NumericQueryParam(href, "t")
		if teamId == "" || seen[teamId] {
			return
		}
		seen[teamId] = true

		teams = append(teams, Team{
			Id:          teamId,
			DivisionId:  divisionId,
			Name:        name,
			JerseyColor: "Unknown",
		})
	})

	return teams, nil
}
