package mufa

import (
	"strings"

	"mufa-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// reads the highlighted season header out of the "Active Leagues"
// dropdown on the homepage, e.g. "Fall 2025". used to notice when
// the configured season has rolled over underneath us.
func ExtractSeasonName(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	return htmlutil.CleanText(doc.Find(".dropdown-menu .bg-primary").First().Text()), nil
}
