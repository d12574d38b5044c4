package detail

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func nopLogger() *zap.Logger { return zap.NewNop() }

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

const detailPage = `
<article>
  <h2>Personal Info</h2>
  <h6>First Name</h6><span>Jane</span>
  <h6>Middle Name</h6><span>Q</span>
  <h6>Last Name</h6><span>Doe</span>
  <h6>Birthday</h6><span>03/04/1985</span>
  <h6>Age</h6><span>41</span>
  <h6>Gender</h6><span>Female</span>
</article>
<article>
  <h2>Contact Info</h2>
  <h6>Mobile Phone</h6><span>(512) 555-0100</span>
  <h6>Landline Phone</h6><span>No Data Provided</span>
  <h6>Primary Address</h6><span>2 Second St</span><span>Austin TX 78701</span>
  <h6>Facebook</h6><span>No Data Provided</span>
  <h6>Twitter</h6><span>@janedoe</span>
</article>
<article>
  <h2>Voter Info</h2>
  <h6>Registration Status</h6><span>Active</span>
  <h6>Official Party</h6><span>Republican</span>
  <h6>Calculated Party</h6><span>Republican</span>
</article>
<article>
  <h2>Voter Identification</h2>
  <h6>State Voter ID</h6><span>TX123456</span>
</article>
<article>
  <h2>District Info</h2>
  <h6>Congressional District</h6><span>TX-35</span>
  <h6>Senate District</h6><span>14</span>
</article>
<article>
  <h2>Vote History</h2>
  <h6>Early Vote Date</h6><span>10/28/2024</span>
</article>
<article>
  <h2>Geographical Location</h2>
  <h6>DMA</h6><span>Austin</span>
  <h6>Turf</h6><span>No Data Provided</span>
</article>
<article>
  <h2>Tags</h2>
  <table><tbody><tr><td>Volunteer</td></tr></tbody></table>
</article>
<article>
  <h2>Notes</h2>
  <ul><li>Called 2024-10-01</li><li>Moved recently</li></ul>
</article>`

func TestExtract(t *testing.T) {
	rec := Extract(doc(t, detailPage), zap.NewNop())

	require.Equal(t, "Jane Q Doe", rec.Name)
	require.Equal(t, "Jane", rec.FirstName)
	require.Equal(t, "03/04/1985", rec.Birthday)
	require.Equal(t, "Female", rec.Gender)

	require.Equal(t, "(512) 555-0100", rec.MobilePhone)
	require.Empty(t, rec.LandlinePhone, "the no-data sentinel must never be stored")
	require.Equal(t, "2 Second St, Austin TX 78701", rec.PrimaryAddress)
	require.Empty(t, rec.Facebook)
	require.Equal(t, "@janedoe", rec.Twitter)

	require.Equal(t, "Active", rec.RegistrationStatus)
	require.Equal(t, "Republican", rec.OfficialParty)
	require.Equal(t, "TX123456", rec.StateVoterID)
	require.Equal(t, "TX-35", rec.CongressionalDistrict)
	require.Equal(t, "10/28/2024", rec.EarlyVoteDate)
	require.Equal(t, "Austin", rec.DMA)
	require.Empty(t, rec.Turf)

	require.Empty(t, rec.Tags, "the tags section is recognized but skipped")
	require.Equal(t, []string{"Called 2024-10-01", "Moved recently"}, rec.Notes)
}

func TestExtractIDTokenFallback(t *testing.T) {
	// Revisions of the portal drop the h6 labels and carry stable id tokens
	// on the value elements instead.
	html := `
<article>
  <h2>Personal Info</h2>
  <span id="ctl00_lblFirstName">John</span>
  <span id="ctl00_lblLastName">Smith</span>
  <span id="ctl00_lblBirthday">01/01/1970</span>
</article>`
	rec := Extract(doc(t, html), zap.NewNop())
	require.Equal(t, "John", rec.FirstName)
	require.Equal(t, "Smith", rec.LastName)
	require.Equal(t, "01/01/1970", rec.Birthday)
	require.Equal(t, "John Smith", rec.Name)
}

func TestExtractFirstWriterWins(t *testing.T) {
	// A specific section sets first_name; a later unknown section carrying
	// a generic "First Name: x" pair must not overwrite it.
	html := `
<article>
  <h2>Personal Info</h2>
  <h6>First Name</h6><span>Jane</span>
</article>
<article>
  <h2>Legacy Summary</h2>
  <p>First Name: WRONG</p>
</article>`
	rec := Extract(doc(t, html), zap.NewNop())
	require.Equal(t, "Jane", rec.FirstName)
}

func TestExtractEmptyPage(t *testing.T) {
	rec := Extract(doc(t, `<div>nothing here</div>`), zap.NewNop())
	require.Empty(t, rec.Name)
	require.Empty(t, rec.FirstName)
}
