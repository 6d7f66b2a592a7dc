package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"wallget/internal/downloader"
	"wallget/pkg/catalog"
	"wallget/pkg/config"
	"wallget/pkg/gallery"
	"wallget/pkg/logger"
	"wallget/pkg/ratelimit"
	"wallget/pkg/scraper"
	"wallget/pkg/storage"
)

// ErrAlreadyStarted is returned when Run is called more than once
var ErrAlreadyStarted = errors.New("run already started")

// Reporter receives progress for a whole run. Calls are never concurrent.
type Reporter interface {
	RunStarted(limit int)
	PageStarted(page int)
	ScrapeComplete(found int, elapsed time.Duration)
	DownloadStarted(total int)
	// ItemOutcome is called once per item. remaining counts down from the
	// download total to 1.
	ItemOutcome(remaining int, outcome downloader.Outcome)
	RunComplete(summary *RunSummary)
}

type nopReporter struct{}

func (nopReporter) RunStarted(int)                      {}
func (nopReporter) PageStarted(int)                     {}
func (nopReporter) ScrapeComplete(int, time.Duration)   {}
func (nopReporter) DownloadStarted(int)                 {}
func (nopReporter) ItemOutcome(int, downloader.Outcome) {}
func (nopReporter) RunComplete(*RunSummary)             {}

// Orchestrator runs the scan, then the download, and summarizes both
type Orchestrator struct {
	cfg      *config.Config
	reporter Reporter
	logger   logger.Logger
	started  atomic.Bool

	startedAt time.Time
	remaining int
	summary   *RunSummary
}

// New creates an Orchestrator for a validated configuration. A nil
// reporter discards progress.
func New(cfg *config.Config, reporter Reporter, log logger.Logger) *Orchestrator {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Orchestrator{
		cfg:      cfg,
		reporter: reporter,
		logger:   log,
	}
}

// pipeline holds the collaborators built during setup
type pipeline struct {
	fragment string
	client   *gallery.Client
	store    *storage.Manager
}

// setup builds the gallery client, rate limiter and storage manager
func (o *Orchestrator) setup() (*pipeline, error) {
	fragment, ok := catalog.Lookup(o.cfg.Run.Resolution)
	if !ok {
		return nil, fmt.Errorf("%q is not a known resolution", o.cfg.Run.Resolution)
	}

	if _, err := gallery.ListingURL(o.cfg.Gallery.BaseURL, o.cfg.Gallery.ListingPath, o.cfg.Run.Sort, fragment, 1); err != nil {
		return nil, fmt.Errorf("invalid gallery configuration: %w", err)
	}

	limiter, err := ratelimit.New(&o.cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit configuration: %w", err)
	}

	store, err := storage.NewManager(o.cfg.Output.Directory)
	if err != nil {
		return nil, err
	}
	if removed, err := store.RemoveStaleTemp(); err != nil {
		o.logger.WithError(err).Warn("Failed to clean up temporary files")
	} else if removed > 0 {
		o.logger.InfoWithFields("Removed leftover temporary files", map[string]interface{}{
			"count": removed,
		})
	}

	client := gallery.NewClient(o.cfg.Download.DownloadTimeout, o.logger)
	client.SetPageTimeout(o.cfg.Download.PageTimeout)
	client.SetSelectors(gallery.SelectorsFromConfig(&o.cfg.Gallery))
	client.SetLimiter(limiter)
	if o.cfg.Gallery.UserAgent != "" {
		client.SetHeader("User-Agent", o.cfg.Gallery.UserAgent)
	}

	return &pipeline{fragment: fragment, client: client, store: store}, nil
}

// Run scans the gallery, downloads what it found and returns the summary.
// Only setup problems are returned as errors; once scanning begins a
// summary is always produced, including after cancellation.
func (o *Orchestrator) Run(ctx context.Context) (*RunSummary, error) {
	if !o.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyStarted
	}

	p, err := o.setup()
	if err != nil {
		o.logger.WithError(err).Error("Run setup failed")
		return nil, err
	}

	o.startedAt = time.Now()
	o.summary = &RunSummary{
		RunID:      uuid.NewString(),
		StartedAt:  o.startedAt,
		Resolution: o.cfg.Run.Resolution,
		Directory:  p.store.OutputDir(),
	}
	log := o.logger.WithField("run_id", o.summary.RunID)

	log.InfoWithFields("Run started", map[string]interface{}{
		"resolution": o.cfg.Run.Resolution,
		"limit":      o.cfg.Run.Limit,
		"sort":       o.cfg.Run.Sort.String(),
		"directory":  p.store.OutputDir(),
	})
	o.reporter.RunStarted(o.cfg.Run.Limit)

	ps := scraper.New(p.client, scraper.Options{
		BaseURL:     o.cfg.Gallery.BaseURL,
		ListingPath: o.cfg.Gallery.ListingPath,
		Resolution:  o.cfg.Run.Resolution,
		Fragment:    p.fragment,
		Limit:       o.cfg.Run.Limit,
		Sort:        o.cfg.Run.Sort,
		MaxPages:    o.cfg.Gallery.MaxPages,
	}, scrapeEvents{o}, log)

	result, err := ps.Start(ctx)
	if err != nil {
		log.WithError(err).Error("Scan aborted")
	}
	o.summary.Found = len(result.Links)
	o.summary.Pages = result.Pages
	o.summary.StopReason = result.StopReason
	o.summary.ScrapeDuration = time.Since(o.startedAt)

	downloadStart := time.Now()
	dl := downloader.New(result.Links, p.store, p.client, downloader.Options{
		Resolution: o.cfg.Run.Resolution,
		Workers:    o.cfg.Download.ConcurrentDownloads,
		Timeout:    o.cfg.Download.DownloadTimeout,
	}, downloadEvents{o}, log)

	if err := dl.Start(ctx); err != nil {
		log.WithError(err).Error("Download aborted")
	}
	o.summary.DownloadDuration = time.Since(downloadStart)
	o.summary.Elapsed = time.Since(o.startedAt)

	log.InfoWithFields("Run completed", map[string]interface{}{
		"found":       o.summary.Found,
		"saved":       o.summary.Saved,
		"existed":     o.summary.Existed,
		"failed":      o.summary.Failed,
		"bytes":       o.summary.BytesSaved,
		"stop_reason": string(o.summary.StopReason),
		"elapsed":     o.summary.Elapsed,
	})
	o.reporter.RunComplete(o.summary)

	return o.summary, nil
}

// report relays one outcome and counts it down
func (o *Orchestrator) report(outcome downloader.Outcome) {
	switch outcome.Kind {
	case downloader.OutcomeSaved:
		o.summary.Saved++
		o.summary.BytesSaved += outcome.Bytes
	case downloader.OutcomeExisted:
		o.summary.Existed++
	default:
		o.summary.Failed++
	}

	o.reporter.ItemOutcome(o.remaining, outcome)
	o.remaining--
}

// scrapeEvents adapts the orchestrator to scraper.Observer
type scrapeEvents struct{ o *Orchestrator }

func (e scrapeEvents) PageStarted(page int) {
	e.o.reporter.PageStarted(page)
}

func (e scrapeEvents) ScrapeComplete(links []gallery.DownloadLink) {
	e.o.reporter.ScrapeComplete(len(links), time.Since(e.o.startedAt))
}

// downloadEvents adapts the orchestrator to downloader.Observer. Outcomes
// arrive in full through ItemOutcome; the per-kind callbacks carry nothing
// more.
type downloadEvents struct{ o *Orchestrator }

var _ downloader.OutcomeObserver = downloadEvents{}

func (e downloadEvents) DownloadStarted(total int) {
	e.o.remaining = total
	e.o.reporter.DownloadStarted(total)
}

func (e downloadEvents) ItemOutcome(outcome downloader.Outcome) {
	e.o.report(outcome)
}

func (downloadEvents) ItemExisted(string)       {}
func (downloadEvents) ItemSaved(string)         {}
func (downloadEvents) ItemFailed(string, error) {}
func (downloadEvents) DownloadComplete()        {}
