package mufa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const divisionHtml = `
<html><body>
<div class="article">
	<a href="/League/Division/Team.aspx?t=1423&d=87">Lucky Dogs</a>
	<a href="/League/Division/Team.aspx?t=1501&d=87">Huck Finns</a>
	<a href="/League/Division/Team.aspx?t=1423&d=87">Lucky Dogs</a>
	<a href="/League/Division/Team.aspx?t=1502&d=87">Disc Jockeys</a>
	<a href="/League/Division/Team.aspx?d=87">no team id</a>
	<a href="/League/Division/Team.aspx?t=1600&d=87">ok</a>
	<a href="/League/Division/Standings.aspx?d=87">Standings</a>
</div>
</body></html>`

func TestExtractTeams(t *testing.T) {
	teams, err := ExtractTeams(divisionHtml, "87")
	require.NoError(t, err)

	// duplicate anchors collapse, anchors without a resolvable id or
	// with too-short text are dropped
	require.Len(t, teams, 3)
	require.Equal(t, Team{
		Id:          "1423",
		DivisionId:  "87",
		Name:        "Lucky Dogs",
		JerseyColor: "Unknown",
	}, teams[0])
	require.Equal(t, "1501", teams[1].Id)
	require.Equal(t, "1502", teams[2].Id)
}

func TestExtractTeamsEmptyPage(t *testing.T) {
	teams, err := ExtractTeams("<html><body>nothing here</body></html>", "87")
	require.NoError(t, err)
	require.Len(t, teams, 0)
}
