// Package rowparse turns search-result table rows into Summary records.
//
// The portal renders each result as a loosely structured table row: an
// optional action column, then name, street address and "city state zip" on
// successive lines, followed by a variable tail of metadata lines. The
// parser is positional and best-effort; a row it cannot make sense of is
// skipped without affecting its neighbors.
package rowparse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"voterlookup/htmltext"
	"voterlookup/records"
)

const detailURLFormat = "https://www.gopdatacenter.com/rnc/RecordLookup/RecordMaintenance.aspx?id=%s"

// openUserWindowRe matches the click-handler invocation embedded in result
// rows; its numeric argument is the only stable record reference available.
var openUserWindowRe = regexp.MustCompile(`OpenUserWindow\s*\(\s*(\d+)\s*\)`)

// resultsTableSelectors are tried in order; the markup has gone through
// several revisions and the grid id is not stable.
var resultsTableSelectors = []string{
	`table[id*="ResultsGrid"]`,
	`table[id*="gvResults"]`,
	`table.results-table`,
}

// actionLabels are first-line values that indicate an action column rendered
// before the name.
var actionLabels = map[string]bool{
	"view":       true,
	"select":     true,
	"view voter": true,
}

// DetailURL recovers the deterministic detail-page URL from a row's raw
// markup. It returns "" when no OpenUserWindow call is present; the row is
// still a valid summary record in that case.
func DetailURL(rowHTML string) string {
	m := openUserWindowRe.FindStringSubmatch(rowHTML)
	if m == nil {
		return ""
	}
	return fmt.Sprintf(detailURLFormat, m[1])
}

// SplitCityStateZip splits a "city state zip" line by taking the last two
// whitespace-delimited tokens as state and zip; the remainder is the city,
// which preserves multi-word city names.
func SplitCityStateZip(line string) (city, state, zip string) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return "", "", ""
	}
	return strings.Join(parts[:len(parts)-2], " "), parts[len(parts)-2], parts[len(parts)-1]
}

// ParseRow parses the rendered lines and raw markup of one table row. The
// second return value is false for non-data rows (headers, spacers, rows
// with fewer than two non-empty lines).
func ParseRow(lines []string, rowHTML string) (records.Summary, bool) {
	if len(lines) < 2 {
		return records.Summary{}, false
	}

	start := 0
	if actionLabels[strings.ToLower(lines[0])] {
		start = 1
	}
	if len(lines) <= start {
		return records.Summary{}, false
	}

	rec := records.Summary{
		Name:         strings.TrimSpace(lines[start]),
		ViewVoterURL: DetailURL(rowHTML),
	}
	if rec.Name == "" {
		return records.Summary{}, false
	}
	if len(lines) > start+1 {
		rec.Address = strings.TrimSpace(lines[start+1])
	}
	if len(lines) > start+2 {
		rec.City, rec.State, rec.ZipCode = SplitCityStateZip(lines[start+2])
	}

	// Typed markers on the trailing lines; the first match of each type
	// wins and later duplicates are ignored.
	for _, line := range lines[min(start+3, len(lines)):] {
		switch {
		case strings.HasPrefix(line, "("):
			if rec.Phone == "" {
				rec.Phone = line
			}
		case strings.Contains(line, "DOB:"):
			if rec.DateOfBirth == "" {
				parts := strings.SplitN(line, "DOB:", 2)
				rec.DateOfBirth = strings.TrimSpace(parts[1])
			}
		case strings.Contains(line, "Calculated Party:"):
			if rec.CalculatedParty == "" {
				idx := strings.LastIndex(line, ":")
				rec.CalculatedParty = strings.TrimSpace(line[idx+1:])
			}
		}
	}

	return rec, true
}

// FindResultsTable locates the results grid in a page document, trying each
// known selector in order. It returns nil when no grid is present (which is
// how the portal renders an empty result set).
func FindResultsTable(doc *goquery.Document) *goquery.Selection {
	for _, sel := range resultsTableSelectors {
		if table := doc.Find(sel).First(); table.Length() > 0 {
			return table
		}
	}
	return nil
}

// ParseTable extracts one Summary per data row of the results grid. Header
// and spacer rows produce nothing. A malformed row is logged and skipped;
// the remaining rows are unaffected.
func ParseTable(doc *goquery.Document, logger *zap.Logger) []records.Summary {
	table := FindResultsTable(doc)
	if table == nil {
		logger.Debug("no results table found on page")
		return nil
	}

	// Without an explicit thead the first row is the header. Rows holding
	// th cells are headers regardless of position.
	skipFirst := table.Find("thead").Length() == 0
	rows := table.Find("tbody tr")
	if rows.Length() == 0 {
		rows = table.Find("tr")
	}

	var out []records.Summary
	rows.Each(func(i int, row *goquery.Selection) {
		if skipFirst && i == 0 {
			return
		}
		if row.Find("th").Length() > 0 {
			return
		}
		rowHTML, err := goquery.OuterHtml(row)
		if err != nil {
			logger.Warn("could not serialize result row", zap.Int("row", i), zap.Error(err))
			return
		}
		rec, ok := ParseRow(htmltext.Lines(row), rowHTML)
		if !ok {
			return
		}
		out = append(out, rec)
	})
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
