// Package session drives the authenticated lookup session: login, one
// search at a time against the portal's form, and per-row detail-page
// navigation. It owns the browser; extractors only ever see parsed
// documents scoped to the row being processed.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"voterlookup/browser"
	"voterlookup/config"
	"voterlookup/fetch"
	"voterlookup/records"
	"voterlookup/rowparse"
)

// Filters are the optional search-form parameters beyond the voter name.
type Filters struct {
	Address string
	City    string
	Zip     string
	Phone   string
	VoterID string
}

// Driver runs sequential lookups over one authenticated browser session.
type Driver struct {
	sess           *browser.Session
	cfg            config.Settings
	log            *zap.Logger
	fetcher        *fetch.Client
	extractDetails bool
}

// New wraps an authenticated-to-be browser session.
func New(sess *browser.Session, cfg config.Settings, logger *zap.Logger, extractDetails bool) *Driver {
	return &Driver{
		sess:           sess,
		cfg:            cfg,
		log:            logger,
		fetcher:        fetch.New(cfg.DetailTimeout),
		extractDetails: extractDetails,
	}
}

// Name-field strategies, most to least semantic. All strategies failing
// aborts the query; a form we cannot address is not worth submitting.
var nameFieldLocators = []browser.Locator{
	{Desc: "voter name textbox (aria)", Sel: `//input[contains(@aria-label,"Voter Name")]`, By: chromedp.BySearch},
	{Desc: `input[id*="txtName"]`, Sel: `input[id*="txtName"]`},
	{Desc: `input[placeholder*="Voter Name"]`, Sel: `input[placeholder*="Voter Name"]`},
	{Desc: `input[name*="Name"]`, Sel: `input[name*="Name"]`},
}

var searchButtonLocators = []browser.Locator{
	{Desc: "search button (text)", Sel: `//button[normalize-space(text())="Search"]`, By: chromedp.BySearch},
	{Desc: `input[type="submit"][value="Search"]`, Sel: `input[type="submit"][value="Search"]`},
	{Desc: `input[id*="btnSearch"]`, Sel: `input[id*="btnSearch"]`},
	{Desc: `button[id*="Search"]`, Sel: `button[id*="Search"]`},
}

var viewVoterLocators = []string{
	`a[id*="ViewVoter"]`,
	`input[id*="ViewVoter"]`,
	`button[id*="ViewVoter"]`,
	`input[value*="View"]`,
	`a[title*="View"]`,
}

var resultsWaitLocators = []browser.Locator{
	{Desc: "results grid", Sel: `table[id*="ResultsGrid"]`},
	{Desc: "results grid (legacy)", Sel: `table[id*="gvResults"]`},
	{Desc: "no-results marker", Sel: `//div[contains(text(),"No matching records")]`, By: chromedp.BySearch},
}

// Authenticate logs in and verifies the session landed back on the search
// page. Failure here is fatal for the whole run.
func (d *Driver) Authenticate(username, password string) error {
	if err := d.sess.Navigate(d.cfg.BaseURL, d.cfg.LoginTimeout); err != nil {
		return fmt.Errorf("could not reach login page: %v", err)
	}

	if err := d.sess.WaitVisible(browser.Locator{
		Desc: "username field", Sel: `input[name*="UserName"]`,
	}, d.cfg.LoginTimeout); err != nil {
		return err
	}

	if _, err := d.sess.FillFirst(username, d.cfg.LoginTimeout,
		browser.Locator{Desc: "username field", Sel: `input[name*="UserName"]`}); err != nil {
		return err
	}
	if _, err := d.sess.FillFirst(password, d.cfg.LoginTimeout,
		browser.Locator{Desc: "password field", Sel: `input[name*="Password"]`}); err != nil {
		return err
	}
	if _, err := d.sess.ClickFirst(d.cfg.LoginTimeout,
		browser.Locator{Desc: "login button", Sel: `input[type="submit"][value="Log In"]`}); err != nil {
		return err
	}

	d.sess.Sleep(d.cfg.SettleDelay)

	loc, err := d.sess.Location()
	if err != nil {
		return fmt.Errorf("could not read post-login location: %v", err)
	}
	if !strings.Contains(loc, "RecordLookup.aspx") {
		return fmt.Errorf("authentication failed: landed on %s", loc)
	}

	d.log.Info("authenticated", zap.String("url", loc))
	return nil
}

// SearchOne clears the form, fills the name plus any filters, submits, and
// parses whatever the results area holds once it settles.
func (d *Driver) SearchOne(name string, f Filters) ([]records.Summary, error) {
	// Clear prior form state; the control is absent on a fresh page, which
	// is fine.
	if _, err := d.sess.ClickFirst(2*time.Second, browser.Locator{
		Desc: "clear link", Sel: `//a[normalize-space(text())="Clear"]`, By: chromedp.BySearch,
	}); err == nil {
		d.sess.Sleep(500 * time.Millisecond)
	}

	used, err := d.sess.FillFirst(name, 2*time.Second, nameFieldLocators...)
	if err != nil {
		return nil, fmt.Errorf("voter name field: %v", err)
	}
	d.log.Debug("filled name field", zap.String("strategy", used))

	if err := d.fillFilters(f); err != nil {
		return nil, err
	}

	used, err = d.sess.ClickFirst(2*time.Second, searchButtonLocators...)
	if err != nil {
		return nil, fmt.Errorf("search button: %v", err)
	}
	d.log.Debug("clicked search", zap.String("strategy", used))

	// Wait for the grid or the explicit no-results marker. A timeout is not
	// an error: extract whatever is present.
	if won, err := d.sess.WaitAny(d.cfg.SearchTimeout, resultsWaitLocators...); err != nil {
		d.log.Debug("timed out waiting for results, proceeding", zap.Error(err))
	} else {
		d.log.Debug("results area visible", zap.String("condition", won))
	}
	d.sess.Sleep(d.cfg.SettleDelay)

	html, err := d.sess.HTML(d.cfg.SearchTimeout)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %v", err)
	}

	recs := rowparse.ParseTable(doc, d.log)

	if d.extractDetails {
		for i := range recs {
			if det := d.extractDetail(&recs[i], i); det != nil {
				recs[i].Detail = det
			}
		}
	}
	return recs, nil
}

func (d *Driver) fillFilters(f Filters) error {
	fields := []struct {
		value string
		sel   string
	}{
		{f.Address, `input[id*="txtAddress"]`},
		{f.City, `input[id*="txtCity"]`},
		{f.Zip, `input[id*="txtZip"]`},
		{f.Phone, `input[id*="txtPhone"]`},
		{f.VoterID, `input[id*="txtVoterId"]`},
	}
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		if _, err := d.sess.FillFirst(field.value, 2*time.Second,
			browser.Locator{Desc: field.sel, Sel: field.sel}); err != nil {
			return fmt.Errorf("filter field %s: %v", field.sel, err)
		}
	}
	return nil
}
