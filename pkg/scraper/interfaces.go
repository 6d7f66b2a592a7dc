package scraper

import (
	"context"

	"wallget/pkg/gallery"
)

// PageFetcher loads and parses one listing page
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (*gallery.Page, error)
}

// Observer receives scan progress. Calls happen on the goroutine running
// Start.
type Observer interface {
	PageStarted(page int)
	ScrapeComplete(links []gallery.DownloadLink)
}

type nopObserver struct{}

func (nopObserver) PageStarted(int)                       {}
func (nopObserver) ScrapeComplete([]gallery.DownloadLink) {}
