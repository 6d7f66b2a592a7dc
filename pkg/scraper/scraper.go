package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"wallget/pkg/config"
	"wallget/pkg/gallery"
	"wallget/pkg/logger"
)

// ErrAlreadyStarted is returned when Start is called more than once
var ErrAlreadyStarted = errors.New("page scraper already started")

// StopReason records why pagination ended
type StopReason string

const (
	StopLimit        StopReason = "limit"
	StopEndOfListing StopReason = "end_of_listing"
	StopFetchError   StopReason = "fetch_error"
	StopCancelled    StopReason = "cancelled"
	StopMaxPages     StopReason = "max_pages"
)

// Options configure a scan. Values are expected to be validated already.
type Options struct {
	BaseURL     string
	ListingPath string
	// Resolution is substituted into every image reference template.
	Resolution string
	// Fragment is the listing path segment for Resolution.
	Fragment string
	// Limit caps the number of links; 0 means unlimited.
	Limit int
	Sort  config.SortMode
	// MaxPages stops the scan after this many pages; 0 means unbounded.
	MaxPages int
}

// Result is the outcome of a scan
type Result struct {
	Links      []gallery.DownloadLink
	Pages      int
	StopReason StopReason
}

// PageScraper walks the gallery listing one page at a time
type PageScraper struct {
	fetcher  PageFetcher
	opts     Options
	observer Observer
	logger   logger.Logger
	started  atomic.Bool
}

// New creates a PageScraper. A nil observer discards progress.
func New(fetcher PageFetcher, opts Options, observer Observer, log logger.Logger) *PageScraper {
	if observer == nil {
		observer = nopObserver{}
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &PageScraper{
		fetcher:  fetcher,
		opts:     opts,
		observer: observer,
		logger:   log.WithField("component", "scraper"),
	}
}

// Start fetches listing pages in ascending order until the limit is
// reached or the listing ends, and returns the collected links in page
// order. Page fetch failures end the scan and are reported through the
// result's StopReason rather than as an error.
func (s *PageScraper) Start(ctx context.Context) (Result, error) {
	if !s.started.CompareAndSwap(false, true) {
		return Result{}, ErrAlreadyStarted
	}

	start := time.Now()
	result, err := s.scan(ctx)
	s.observer.ScrapeComplete(result.Links)

	if err != nil {
		return result, err
	}

	s.logger.InfoWithFields("Scrape completed", map[string]interface{}{
		"links":       len(result.Links),
		"pages":       result.Pages,
		"stop_reason": string(result.StopReason),
		"duration":    time.Since(start),
	})

	return result, nil
}

func (s *PageScraper) scan(ctx context.Context) (Result, error) {
	var result Result
	seen := make(map[string]bool)

	for page := 1; ; page++ {
		if s.opts.MaxPages > 0 && page > s.opts.MaxPages {
			result.StopReason = StopMaxPages
			return result, nil
		}

		if ctx.Err() != nil {
			result.StopReason = StopCancelled
			return result, nil
		}

		pageURL, err := gallery.ListingURL(s.opts.BaseURL, s.opts.ListingPath, s.opts.Sort, s.opts.Fragment, page)
		if err != nil {
			return result, fmt.Errorf("failed to build listing URL: %w", err)
		}

		s.observer.PageStarted(page)
		result.Pages = page

		s.logger.DebugWithFields("Fetching listing page", map[string]interface{}{
			"page": page,
			"url":  pageURL,
		})

		p, err := s.fetcher.FetchPage(ctx, pageURL)
		if err != nil {
			result.StopReason = s.classifyFetchError(ctx, page, err)
			return result, nil
		}

		if len(p.Refs) == 0 {
			s.logger.DebugWithFields("Listing page is empty", map[string]interface{}{
				"page": page,
			})
			result.StopReason = StopEndOfListing
			return result, nil
		}

		added := 0
		for _, ref := range p.Refs {
			key := ref.ID
			if key == "" {
				key = ref.Template
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			added++

			result.Links = append(result.Links, ref.Resolve(s.opts.Resolution))

			if s.opts.Limit > 0 && len(result.Links) >= s.opts.Limit {
				result.StopReason = StopLimit
				return result, nil
			}
		}

		// Some galleries repeat their last page for any index past the end
		if added == 0 {
			s.logger.DebugWithFields("Listing page repeats earlier items", map[string]interface{}{
				"page": page,
			})
			result.StopReason = StopEndOfListing
			return result, nil
		}

		if !p.HasMore {
			result.StopReason = StopEndOfListing
			return result, nil
		}
	}
}

// classifyFetchError decides how a failed page fetch ends the scan
func (s *PageScraper) classifyFetchError(ctx context.Context, page int, err error) StopReason {
	switch {
	case ctx.Err() != nil:
		return StopCancelled
	case gallery.IsNotFound(err):
		s.logger.DebugWithFields("Listing page not found, treating as end of listing", map[string]interface{}{
			"page": page,
		})
		return StopEndOfListing
	default:
		s.logger.WithError(err).WarnWithFields("Listing page fetch failed, ending scan with partial results", map[string]interface{}{
			"page": page,
		})
		return StopFetchError
	}
}
