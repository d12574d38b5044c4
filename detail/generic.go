package detail

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"voterlookup/htmltext"
	"voterlookup/records"
)

// The generic extractor is a deliberately bounded fallback for sections the
// dispatcher does not recognize: two label/value shapes, a fixed label
// dictionary, first unset match wins. Its fragility is the point; anything
// worth doing better gets its own section handler.

// colonPairRe matches the "Label: Value" shape on a single line.
var colonPairRe = regexp.MustCompile(`(?m)^\s*([A-Za-z][A-Za-z ]*?):[ \t]*(\S[^\n\r]*)$`)

// labelLineRe recognizes a line that is purely a label, for the shape where
// the value follows on the next line.
var labelLineRe = regexp.MustCompile(`^[A-Za-z][A-Za-z ]*$`)

// junkValues are placeholder strings that must never be stored.
var junkValues = map[string]bool{
	"n/a":  true,
	"none": true,
	"null": true,
}

// genericFields maps lower-cased label substrings onto record fields, in
// match priority order. Compound entries list every substring that must be
// present.
var genericFields = []struct {
	labels []string
	field  func(*records.Detail) *string
}{
	{[]string{"first name"}, func(r *records.Detail) *string { return &r.FirstName }},
	{[]string{"middle name"}, func(r *records.Detail) *string { return &r.MiddleName }},
	{[]string{"last name"}, func(r *records.Detail) *string { return &r.LastName }},
	{[]string{"birth"}, func(r *records.Detail) *string { return &r.Birthday }},
	{[]string{"age"}, func(r *records.Detail) *string { return &r.Age }},
	{[]string{"gender"}, func(r *records.Detail) *string { return &r.Gender }},
	{[]string{"phone", "mobile"}, func(r *records.Detail) *string { return &r.MobilePhone }},
	{[]string{"phone", "landline"}, func(r *records.Detail) *string { return &r.LandlinePhone }},
	{[]string{"address", "primary"}, func(r *records.Detail) *string { return &r.PrimaryAddress }},
	{[]string{"address", "secondary"}, func(r *records.Detail) *string { return &r.SecondaryAddress }},
	{[]string{"registration status"}, func(r *records.Detail) *string { return &r.RegistrationStatus }},
	{[]string{"registration date"}, func(r *records.Detail) *string { return &r.RegistrationDate }},
	{[]string{"party", "official"}, func(r *records.Detail) *string { return &r.OfficialParty }},
	{[]string{"party", "observed"}, func(r *records.Detail) *string { return &r.ObservedParty }},
	{[]string{"party"}, func(r *records.Detail) *string { return &r.CalculatedParty }},
	{[]string{"voter id"}, func(r *records.Detail) *string { return &r.StateVoterID }},
	{[]string{"precinct"}, func(r *records.Detail) *string { return &r.Precinct }},
	{[]string{"congressional district"}, func(r *records.Detail) *string { return &r.CongressionalDistrict }},
	{[]string{"senate district"}, func(r *records.Detail) *string { return &r.SenateDistrict }},
	{[]string{"legislative district"}, func(r *records.Detail) *string { return &r.LegislativeDistrict }},
	{[]string{"census block"}, func(r *records.Detail) *string { return &r.CensusBlock }},
	{[]string{"dma"}, func(r *records.Detail) *string { return &r.DMA }},
}

// extractGeneric scans a section's rendered text for label/value pairs and
// maps known labels onto still-unset record fields.
func extractGeneric(section *goquery.Selection, rec *records.Detail) {
	text := htmltext.Text(section)

	for _, m := range colonPairRe.FindAllStringSubmatch(text, -1) {
		applyGeneric(rec, m[1], m[2])
	}

	// Label-on-one-line, value-on-the-next. A sliding window rather than a
	// multiline regex: a line can be the value of the previous label and a
	// label for the next line at the same time.
	lines := htmltext.Lines(section)
	for i := 0; i+1 < len(lines); i++ {
		if labelLineRe.MatchString(lines[i]) {
			applyGeneric(rec, lines[i], lines[i+1])
		}
	}
}

func applyGeneric(rec *records.Detail, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" || junkValues[strings.ToLower(value)] {
		return
	}

	label = strings.ToLower(strings.TrimSpace(label))
	for _, f := range genericFields {
		if !labelMatches(label, f.labels) {
			continue
		}
		dst := f.field(rec)
		if *dst != "" {
			// Only the first unset match is taken; a more specific
			// extractor has already claimed this field.
			return
		}
		records.Set(dst, value)
		return
	}
}

func labelMatches(label string, needles []string) bool {
	for _, n := range needles {
		if !strings.Contains(label, n) {
			return false
		}
	}
	return true
}
