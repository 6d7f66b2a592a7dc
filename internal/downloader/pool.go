package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"wallget/pkg/gallery"
	"wallget/pkg/logger"
	"wallget/pkg/ratelimit"
)

// ErrPoolStopped is returned when submitting to a stopped pool
var ErrPoolStopped = errors.New("worker pool is stopped")

// Job is a single download task
type Job struct {
	Index int
	Link  gallery.DownloadLink
}

// Fetcher opens the body of an image URL
type Fetcher interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// Storage is the target directory
type Storage interface {
	Exists(name string) (bool, error)
	Save(r io.Reader, name string) (int64, error)
}

// WorkerPool runs download jobs on a fixed number of workers. Every
// submitted job yields exactly one Outcome on Results, including jobs
// picked up after ctx is cancelled.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Outcome
	wg          sync.WaitGroup
	ctx         context.Context
	fetcher     Fetcher
	store       Storage
	rateLimiter ratelimit.Limiter
	timeout     time.Duration
	logger      logger.Logger

	mu      sync.Mutex
	stopped bool
}

// NewWorkerPool creates a new download worker pool. limiter may be nil;
// timeout 0 disables the per-item deadline.
func NewWorkerPool(
	ctx context.Context,
	numWorkers int,
	fetcher Fetcher,
	store Storage,
	limiter ratelimit.Limiter,
	timeout time.Duration,
	log logger.Logger,
) *WorkerPool {
	if log == nil {
		log = logger.GetLogger()
	}
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2), // Buffer size = 2x workers
		resultQueue: make(chan Outcome, numWorkers),
		ctx:         ctx,
		fetcher:     fetcher,
		store:       store,
		rateLimiter: limiter,
		timeout:     timeout,
		logger:      log,
	}
}

// Start launches the workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for the workers to drain it and then
// closes the result channel. Results must be consumed concurrently.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.jobQueue)
	wp.mu.Unlock()

	wp.wg.Wait()
	close(wp.resultQueue)

	wp.logger.Debug("Worker pool stopped")
}

// Submit queues a job, blocking while the queue is full
func (wp *WorkerPool) Submit(job Job) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.stopped {
		return ErrPoolStopped
	}
	wp.jobQueue <- job
	return nil
}

// Results returns the outcome channel
func (wp *WorkerPool) Results() <-chan Outcome {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		wp.resultQueue <- wp.processJob(job, id)
	}
}

// processJob handles a single download job
func (wp *WorkerPool) processJob(job Job, workerID int) Outcome {
	start := time.Now()
	name := job.Link.FileName
	outcome := Outcome{FileName: name, URL: job.Link.URL}

	fields := map[string]interface{}{
		"worker_id": workerID,
		"file":      name,
	}

	fail := func(stage Stage, err error) Outcome {
		outcome.Kind = OutcomeFailed
		outcome.Err = &ItemError{FileName: name, Stage: stage, Err: err}
		outcome.Duration = time.Since(start)
		return outcome
	}

	if wp.ctx.Err() != nil {
		return fail(StageCancelled, wp.ctx.Err())
	}

	exists, err := wp.store.Exists(name)
	if err != nil {
		wp.logger.WithError(err).ErrorWithFields("Failed to check target path", fields)
		return fail(StageWrite, err)
	}
	if exists {
		wp.logger.DebugWithFields("Image already exists", fields)
		outcome.Kind = OutcomeExisted
		outcome.Duration = time.Since(start)
		return outcome
	}

	if wp.rateLimiter != nil {
		if err := wp.rateLimiter.Wait(wp.ctx); err != nil {
			return fail(StageCancelled, err)
		}
	}

	ctx := wp.ctx
	if wp.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wp.timeout)
		defer cancel()
	}

	body, err := wp.fetcher.Open(ctx, job.Link.URL)
	if err != nil {
		if wp.ctx.Err() != nil {
			return fail(StageCancelled, err)
		}
		wp.logger.WithError(err).WarnWithFields("Failed to fetch image", fields)
		return fail(StageFetch, fmt.Errorf("download failed: %w", err))
	}
	defer body.Close()

	tr := &trackingReader{r: body}
	written, err := wp.store.Save(tr, name)
	outcome.Bytes = written
	if err != nil {
		switch {
		case wp.ctx.Err() != nil:
			return fail(StageCancelled, err)
		case tr.err != nil:
			wp.logger.WithError(tr.err).WarnWithFields("Image transfer interrupted", fields)
			return fail(StageFetch, fmt.Errorf("download failed: %w", tr.err))
		default:
			wp.logger.WithError(err).ErrorWithFields("Failed to write image", fields)
			return fail(StageWrite, fmt.Errorf("save failed: %w", err))
		}
	}

	outcome.Kind = OutcomeSaved
	outcome.Duration = time.Since(start)

	wp.logger.DebugWithFields("Image saved", map[string]interface{}{
		"worker_id": workerID,
		"file":      name,
		"size":      written,
		"duration":  outcome.Duration,
	})

	return outcome
}

// trackingReader remembers the first non-EOF read error so a failed save
// can be attributed to the network rather than the disk
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}
