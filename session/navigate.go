package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"voterlookup/browser"
	"voterlookup/detail"
	"voterlookup/records"
)

// Detail navigation walks a small state machine per row:
// OnResultsList -> DetailRequested -> OnDetailPage -> Closed. The preferred
// transition opens the deterministic detail URL in its own tab; rows without
// a recovered reference fall back to clicking the row's view control and
// detecting whether that opened a tab or navigated the results page away.

const detailPageToken = "RecordMaintenance"

// extractDetail returns the detailed record for one summary row, or nil when
// the detail page could not be reached or verified. Failures affect only
// this row.
func (d *Driver) extractDetail(rec *records.Summary, rowIndex int) *records.Detail {
	if rec.ViewVoterURL != "" {
		if d.cfg.DirectFetch {
			return d.detailByFetch(rec.ViewVoterURL)
		}
		return d.detailByTab(rec.ViewVoterURL)
	}
	return d.detailByClick(rec, rowIndex)
}

// detailByFetch pulls the detail page over HTTP with the session's cookies.
func (d *Driver) detailByFetch(url string) *records.Detail {
	cookies, err := d.sess.Cookies()
	if err != nil {
		d.log.Warn("detail fetch skipped", zap.Error(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.DetailTimeout)
	defer cancel()

	doc, err := d.fetcher.PageDocument(ctx, url, cookies)
	if err != nil {
		d.log.Warn("detail fetch failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	if !isDetailDoc(doc) {
		d.log.Warn("fetched page is not a detail page", zap.String("url", url))
		return nil
	}
	return detail.Extract(doc, d.log)
}

// detailByTab opens the deterministic detail URL in a transient child tab
// and closes it once the section extractors are done.
func (d *Driver) detailByTab(url string) *records.Detail {
	tabCtx, cancel := chromedp.NewContext(d.sess.Context())
	defer cancel()

	runCtx, runCancel := context.WithTimeout(tabCtx, d.cfg.DetailTimeout)
	defer runCancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("article", chromedp.ByQuery),
	)
	if err != nil {
		d.log.Warn("detail tab failed", zap.String("url", url), zap.Error(err))
		return nil
	}

	return d.extractFromTab(tabCtx, url)
}

// detailByClick is the fallback when no record reference was recoverable:
// click the row's view control and detect where the portal took us.
func (d *Driver) detailByClick(rec *records.Summary, rowIndex int) *records.Detail {
	// Arm the new-target watch before clicking. The watch context is
	// cancelled when this row is done, so a click that navigates in place
	// does not leave a listener behind on the session.
	watchCtx, cancelWatch := context.WithCancel(d.sess.Context())
	defer cancelWatch()
	targetCh := chromedp.WaitNewTarget(watchCtx, func(info *target.Info) bool {
		return info.OpenerID != ""
	})

	if _, err := d.sess.ClickFirst(2*time.Second, rowViewLocators(rec.Name)...); err != nil {
		d.log.Debug("no view control found for row", zap.Int("row", rowIndex), zap.Error(err))
		return nil
	}

	select {
	case targetID := <-targetCh:
		// A new tab opened; attach to it, extract, then close it.
		tabCtx, cancel := chromedp.NewContext(d.sess.Context(), chromedp.WithTargetID(targetID))
		defer cancel()

		waitCtx, waitCancel := context.WithTimeout(tabCtx, d.cfg.DetailTimeout)
		err := chromedp.Run(waitCtx, chromedp.WaitVisible("article", chromedp.ByQuery))
		waitCancel()
		if err != nil {
			d.log.Warn("detail tab never became ready", zap.Int("row", rowIndex), zap.Error(err))
			return nil
		}
		return d.extractFromTab(tabCtx, "")

	case <-time.After(2 * time.Second):
		// No tab: the results page itself may have navigated.
		return d.detailInPlace(rowIndex)
	}
}

// detailInPlace handles the portal navigating the results tab to the detail
// page; afterwards it navigates back and waits for the grid to reload.
func (d *Driver) detailInPlace(rowIndex int) *records.Detail {
	loc, err := d.sess.Location()
	if err != nil || !strings.Contains(loc, detailPageToken) {
		d.log.Warn("view click led nowhere recognizable",
			zap.Int("row", rowIndex), zap.String("url", loc))
		return nil
	}

	rec := d.extractFromTab(d.sess.Context(), loc)

	if err := d.sess.NavigateBack(d.cfg.SearchTimeout); err != nil {
		d.log.Warn("failed to navigate back to results", zap.Error(err))
	} else if _, err := d.sess.WaitAny(d.cfg.SearchTimeout, resultsWaitLocators...); err != nil {
		d.log.Warn("results grid did not reload after navigating back", zap.Error(err))
	}
	return rec
}

// extractFromTab captures a tab's HTML, verifies it really is a detail page,
// and runs the section extractors. The sanity check keeps a wrong page from
// producing a half-filled record.
func (d *Driver) extractFromTab(tabCtx context.Context, url string) *records.Detail {
	html, err := browser.HTMLOf(tabCtx, d.cfg.DetailTimeout)
	if err != nil {
		d.log.Warn("could not capture detail page", zap.Error(err))
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		d.log.Warn("could not parse detail page", zap.Error(err))
		return nil
	}
	if !isDetailDoc(doc) {
		d.log.Warn("page failed the detail-page sanity check", zap.String("url", url))
		return nil
	}
	return detail.Extract(doc, d.log)
}

// isDetailDoc is the post-navigation sanity check: a real detail page always
// carries article sections.
func isDetailDoc(doc *goquery.Document) bool {
	return doc.Find("article").Length() > 0
}

// rowViewLocators builds view-control strategies scoped to the row that
// mentions the record's display name.
func rowViewLocators(name string) []browser.Locator {
	escaped := strings.ReplaceAll(name, `"`, "")
	locs := make([]browser.Locator, 0, len(viewVoterLocators))
	for _, pattern := range viewVoterLocators {
		xpath := fmt.Sprintf(`//tr[contains(., "%s")]%s`, escaped, cssToRowXPath(pattern))
		locs = append(locs, browser.Locator{Desc: pattern, Sel: xpath, By: chromedp.BySearch})
	}
	return locs
}

// cssToRowXPath translates the known view-control CSS patterns into row-
// relative XPath steps. Only the handful of shapes in viewVoterLocators are
// supported.
func cssToRowXPath(pattern string) string {
	open := strings.Index(pattern, "[")
	tag := pattern[:open]
	attr := pattern[open+1 : len(pattern)-1] // e.g. id*="ViewVoter"
	parts := strings.SplitN(attr, `*=`, 2)
	name := parts[0]
	val := strings.Trim(parts[1], `"`)
	return fmt.Sprintf(`//%s[contains(@%s,"%s")]`, tag, name, val)
}
