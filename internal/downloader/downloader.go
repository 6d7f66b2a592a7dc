package downloader

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"wallget/pkg/gallery"
	"wallget/pkg/logger"
	"wallget/pkg/ratelimit"
)

// DefaultWorkers is the pool size used when Options.Workers is not set
const DefaultWorkers = 4

// ErrAlreadyStarted is returned when Start is called more than once
var ErrAlreadyStarted = errors.New("downloader already started")

// OutcomeKind is the result of processing one link
type OutcomeKind string

const (
	OutcomeExisted OutcomeKind = "existed"
	OutcomeSaved   OutcomeKind = "saved"
	OutcomeFailed  OutcomeKind = "failed"
)

// Stage tells where a failed item went wrong
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageWrite     Stage = "write"
	StageCancelled Stage = "cancelled"
)

// ItemError is the error carried by a failed outcome
type ItemError struct {
	FileName string
	Stage    Stage
	Err      error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.FileName, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// StageOf returns the failure stage recorded in err, or "" when err did
// not come from the downloader
func StageOf(err error) Stage {
	var ierr *ItemError
	if errors.As(err, &ierr) {
		return ierr.Stage
	}
	return ""
}

// Outcome is the terminal result for one download link
type Outcome struct {
	Kind     OutcomeKind
	FileName string
	URL      string
	Err      error
	Bytes    int64
	Duration time.Duration
}

// Stage returns the failure stage of a failed outcome
func (o Outcome) Stage() Stage {
	return StageOf(o.Err)
}

// Options configure a Downloader
type Options struct {
	// Resolution is only used for logging.
	Resolution string
	Workers    int
	// Timeout bounds each item fetch; 0 means no deadline.
	Timeout time.Duration
	// Limiter, when set, is waited on before every fetch.
	Limiter ratelimit.Limiter
}

// Observer receives download progress. All methods are called from a
// single goroutine, in completion order.
type Observer interface {
	DownloadStarted(total int)
	ItemExisted(name string)
	ItemSaved(name string)
	ItemFailed(name string, err error)
	DownloadComplete()
}

// OutcomeObserver is an optional extension of Observer for callers that
// need the full Outcome, including size, URL and duration. When the
// observer implements it, ItemOutcome is called just before the per-kind
// method for the same item.
type OutcomeObserver interface {
	ItemOutcome(outcome Outcome)
}

type nopObserver struct{}

func (nopObserver) DownloadStarted(int)      {}
func (nopObserver) ItemExisted(string)       {}
func (nopObserver) ItemSaved(string)         {}
func (nopObserver) ItemFailed(string, error) {}
func (nopObserver) DownloadComplete()        {}

// Downloader fetches a list of links into storage on a bounded worker pool
type Downloader struct {
	links    []gallery.DownloadLink
	store    Storage
	fetcher  Fetcher
	opts     Options
	observer Observer
	logger   logger.Logger
	started  atomic.Bool
}

// New creates a Downloader. Links sharing a file name are collapsed to the
// first occurrence.
func New(links []gallery.DownloadLink, store Storage, fetcher Fetcher, opts Options, observer Observer, log logger.Logger) *Downloader {
	if observer == nil {
		observer = nopObserver{}
	}
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	log = log.WithField("component", "downloader")

	seen := make(map[string]bool, len(links))
	unique := make([]gallery.DownloadLink, 0, len(links))
	for _, link := range links {
		if seen[link.FileName] {
			log.DebugWithFields("Skipping duplicate file name", map[string]interface{}{
				"file": link.FileName,
				"url":  link.URL,
			})
			continue
		}
		seen[link.FileName] = true
		unique = append(unique, link)
	}

	return &Downloader{
		links:    unique,
		store:    store,
		fetcher:  fetcher,
		opts:     opts,
		observer: observer,
		logger:   log,
	}
}

// Start processes every link and returns once each has an outcome.
// Cancelling ctx stops new fetches; items not yet started are reported as
// failed with StageCancelled.
func (d *Downloader) Start(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	start := time.Now()
	d.observer.DownloadStarted(len(d.links))

	d.logger.InfoWithFields("Starting download", map[string]interface{}{
		"items":      len(d.links),
		"workers":    d.opts.Workers,
		"resolution": d.opts.Resolution,
	})

	pool := NewWorkerPool(ctx, d.opts.Workers, d.fetcher, d.store, d.opts.Limiter, d.opts.Timeout, d.logger)
	pool.Start()

	var saved, existed, failed int
	var g errgroup.Group

	g.Go(func() error {
		defer pool.Stop()
		for i, link := range d.links {
			if err := pool.Submit(Job{Index: i, Link: link}); err != nil {
				return fmt.Errorf("failed to submit %s: %w", link.FileName, err)
			}
		}
		return nil
	})

	full, _ := d.observer.(OutcomeObserver)

	g.Go(func() error {
		for outcome := range pool.Results() {
			if full != nil {
				full.ItemOutcome(outcome)
			}
			switch outcome.Kind {
			case OutcomeExisted:
				existed++
				d.observer.ItemExisted(outcome.FileName)
			case OutcomeSaved:
				saved++
				d.observer.ItemSaved(outcome.FileName)
			default:
				failed++
				d.observer.ItemFailed(outcome.FileName, outcome.Err)
			}
		}
		return nil
	})

	err := g.Wait()
	d.observer.DownloadComplete()

	logger.LogMetrics(d.logger, "download", map[string]interface{}{
		"saved":    saved,
		"existed":  existed,
		"failed":   failed,
		"duration": time.Since(start),
		"rate":     logger.FormatRate(saved, time.Since(start)),
	})

	return err
}
