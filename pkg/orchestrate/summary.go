package orchestrate

import (
	"time"

	"wallget/pkg/scraper"
)

// RunSummary describes a finished run
type RunSummary struct {
	RunID      string
	StartedAt  time.Time
	Resolution string
	Directory  string

	// Found is the number of links the scan produced
	Found   int
	Saved   int
	Failed  int
	Existed int

	// BytesSaved is the total size of newly saved images
	BytesSaved int64

	Pages      int
	StopReason scraper.StopReason

	ScrapeDuration   time.Duration
	DownloadDuration time.Duration
	Elapsed          time.Duration
}

// Total returns the number of items that reached an outcome
func (s *RunSummary) Total() int {
	return s.Saved + s.Failed + s.Existed
}

// FailureRate returns the share of processed items that failed
func (s *RunSummary) FailureRate() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Failed) / float64(total)
}

// HasFailures reports whether any item failed
func (s *RunSummary) HasFailures() bool {
	return s.Failed > 0
}
