package htmltext

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func sel(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Find("body").Children()
}

func TestLinesBreakAtBlockBoundaries(t *testing.T) {
	s := sel(t, `<table><tr><td>View</td><td>Jane Doe<br>1 Main St<div>Austin TX 78701</div></td></tr></table>`)
	require.Equal(t, []string{"View", "Jane Doe", "1 Main St", "Austin TX 78701"}, Lines(s))
}

func TestLinesSkipScriptAndStyle(t *testing.T) {
	s := sel(t, `<div>Jane Doe<script>OpenUserWindow(1)</script><style>.x{}</style></div>`)
	require.Equal(t, []string{"Jane Doe"}, Lines(s))
}

func TestLinesDropBlankLines(t *testing.T) {
	s := sel(t, "<ul><li>  first  </li><li></li><li>\n second\n</li></ul>")
	require.Equal(t, []string{"first", "second"}, Lines(s))
}

func TestClean(t *testing.T) {
	require.Equal(t, "Jane Doe", Clean("  Jane\n\tDoe  "))
	require.Equal(t, "", Clean(" \n\t "))
}
