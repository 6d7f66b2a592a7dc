// Package scraper walks a paginated wallpaper listing and collects
// download links.
//
// Pages are fetched strictly in order starting at page 1. Links keep page
// order and within-page order, references seen on an earlier page are
// skipped, and when a limit is set the list is cut to exactly that many
// links without fetching another page.
//
// The scan ends when a page has no items, only repeats items already seen,
// reports no further pages, returns 404, fails to load, or the context is
// cancelled. Failures are not retried: the links gathered so far are
// returned and Result.StopReason says why the scan stopped.
//
// Usage:
//
//	ps := scraper.New(client, scraper.Options{
//	    BaseURL:     cfg.Gallery.BaseURL,
//	    ListingPath: cfg.Gallery.ListingPath,
//	    Resolution:  "1920x1080",
//	    Fragment:    fragment,
//	    Sort:        config.SortDate,
//	}, observer, log)
//
//	result, err := ps.Start(ctx)
package scraper
