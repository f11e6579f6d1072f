package mufa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const fieldListHtml = `
<html><body>
<a href="Field.aspx?f=22&d=87">Burr Jones Field</a>
<a href="Field.aspx?f=31&d=87">Warner Park East</a>
<a href="Field.aspx?f=22&d=87">Burr Jones Field</a>
<a href="Field.aspx?d=87">broken</a>
</body></html>`

func TestExtractFieldLinks(t *testing.T) {
	fields, err := ExtractFieldLinks(fieldListHtml)
	require.NoError(t, err)
	require.Equal(t, []FieldLink{
		{Id: "22", Name: "Burr Jones Field"},
		{Id: "31", Name: "Warner Park East"},
	}, fields)
}

const fieldDetailHtml = `
<html><body>
<h1>Burr Jones Field</h1>
<p>Located at 1820 E Washington Ave, Madison, WI 53704 next to the river.</p>
<img src="/uploads/1/parks/burrjones.jpg">
<p>Street parking available on Oak St.</p>
</body></html>`

func TestExtractFieldDetails(t *testing.T) {
	details, err := ExtractFieldDetails(
		fieldDetailHtml,
		FieldLink{Id: "22", Name: "Burr Jones Field"},
		DefaultBaseUrl,
	)
	require.NoError(t, err)

	require.Equal(t, "22", details.Id)
	require.Equal(t, "Burr Jones Field", details.Name)
	require.Equal(t, "1820 E Washington Ave, Madison, WI 53704", details.Address)
	require.Contains(t, details.MapUrl, "maps.google.com/search/")
	require.Equal(t, DefaultBaseUrl+"/uploads/1/parks/burrjones.jpg", details.DiagramUrl)
	require.Contains(t, details.ParkingInfo, "parking")
}

func TestExtractFieldDetailsBarePage(t *testing.T) {
	details, err := ExtractFieldDetails(
		"<html><body>nothing useful</body></html>",
		FieldLink{Id: "31", Name: "Warner Park East"},
		DefaultBaseUrl,
	)
	require.NoError(t, err)

	require.Empty(t, details.Address)
	require.Empty(t, details.DiagramUrl)
	// a search link derived from the name is always available
	require.Contains(t, details.MapUrl, "Warner+Park+East")
}
