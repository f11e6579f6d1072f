package mufa

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"mufa-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type FieldLink struct {
	Id   string
	Name string
}

type FieldDetails struct {
	Id          string
	Name        string
	Address     string
	MapUrl      string
	DiagramUrl  string
	ParkingInfo string
}

// pulls field anchors off a division field listing page
func ExtractFieldLinks(html string) ([]FieldLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var fields []FieldLink
	seen := map[string]bool{}

	doc.Find(`a[href*="Field.aspx?f="]`).Each(func(_ int, link *goquery.Selection) {
		name := htmlutil.CleanText(link.Text())
		fieldId := htmlutil.NumericQueryParam(link.AttrOr("href", ""), "f")
		if name == "" || fieldId == "" || seen[fieldId] {
			return
		}
		seen[fieldId] = true
		fields = append(fields, FieldLink{Id: fieldId, Name: name})
	})

	return fields, nil
}

// e.g. "1820 E Washington Ave, Madison, WI 53704"
var madisonAddress = regexp.MustCompile(`\d+\s+[^,]+,\s*Madison,\s*WI\s*\d{5}`)

var diagramPathKeywords = []string{"parks", "field", "diagram"}

func MapSearchUrl(query string) string {
	return fmt.Sprintf(
		"https://maps.google.com/search/%s",
		url.QueryEscape(query+" Madison WI"),
	)
}

// scrapes whatever venue details a field page happens to expose.
// every attribute is best-effort, a missing one stays empty rather
// than erroring.
func ExtractFieldDetails(html string, field FieldLink, baseUrl string) (FieldDetails, error) {
	details := FieldDetails{
		Id:   field.Id,
		Name: field.Name,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return details, err
	}

	if match := madisonAddress.FindString(doc.Find("body").Text()); match != "" {
		details.Address = strings.TrimSpace(match)
		details.MapUrl = fmt.Sprintf(
			"https://maps.google.com/search/%s",
			url.QueryEscape(details.Address),
		)
	}

	// an explicit maps link beats one derived from the address
	doc.Find(`a[href*="maps.google"], a[href*="goo.gl/maps"]`).EachWithBreak(
		func(_ int, link *goquery.Selection) bool {
			if href := link.AttrOr("href", ""); href != "" {
				details.MapUrl = href
				return false
			}
			return true
		})

	doc.Find(`img[src*="/uploads/"], img[src*="parks"], a[href*=".jpg"], a[href*=".png"]`).Each(
		func(_ int, el *goquery.Selection) {
			src := el.AttrOr("src", el.AttrOr("href", ""))
			if src == "" {
				return
			}
			for _, keyword := range diagramPathKeywords {
				if strings.Contains(src, keyword) {
					if !strings.HasPrefix(src, "http") {
						src = baseUrl + src
					}
					details.DiagramUrl = src
					return
				}
			}
		})

	doc.Find("p, li, div").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		text := htmlutil.CleanText(el.Text())
		if len(text) >= 200 || !strings.Contains(strings.ToLower(text), "park") {
			return true
		}
		details.ParkingInfo = text
		return false
	})

	if details.MapUrl == "" {
		details.MapUrl = MapSearchUrl(field.Name)
	}

	return details, nil
}
