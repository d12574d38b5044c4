package detail

import (
	"testing"

	"github.com/stretchr/testify/require"

	"voterlookup/records"
)

func TestGenericLabelColonValue(t *testing.T) {
	html := `
<article>
  <h2>Summary</h2>
  <p>First Name: Alice</p>
  <p>Last Name: Brown</p>
  <p>Voter ID: AZ00042</p>
  <p>Precinct: 17</p>
  <p>Gender: n/a</p>
</article>`
	rec := Extract(doc(t, html), nopLogger())

	require.Equal(t, "Alice", rec.FirstName)
	require.Equal(t, "Brown", rec.LastName)
	require.Equal(t, "AZ00042", rec.StateVoterID)
	require.Equal(t, "17", rec.Precinct)
	require.Empty(t, rec.Gender, "junk placeholder values are skipped")
}

func TestGenericLabelNextLineValue(t *testing.T) {
	html := `
<article>
  <h2>Misc</h2>
  <div>Registration Date</div>
  <div>05/06/2010</div>
  <div>Census Block</div>
  <div>040130001001</div>
</article>`
	rec := Extract(doc(t, html), nopLogger())

	require.Equal(t, "05/06/2010", rec.RegistrationDate)
	require.Equal(t, "040130001001", rec.CensusBlock)
}

func TestGenericCompoundLabels(t *testing.T) {
	html := `
<article>
  <h2>Old Contact Block</h2>
  <p>Mobile Phone: (602) 555-0110</p>
  <p>Official Party: Republican</p>
  <p>Party: Independent</p>
</article>`
	rec := Extract(doc(t, html), nopLogger())

	require.Equal(t, "(602) 555-0110", rec.MobilePhone)
	require.Equal(t, "Republican", rec.OfficialParty)
	require.Equal(t, "Independent", rec.CalculatedParty)
}

func TestGenericUnknownLabelIgnored(t *testing.T) {
	rec := &records.Detail{}
	applyGeneric(rec, "Shoe Size", "11")
	require.Equal(t, records.Detail{}, *rec)
}
