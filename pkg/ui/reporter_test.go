package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wallget/internal/downloader"
	"wallget/pkg/orchestrate"
)

func newTestReporter(mode Mode) (*ConsoleReporter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewConsoleReporter(NewConsole(&out, &errOut), mode), &out, &errOut
}

func playRun(r *ConsoleReporter) {
	r.RunStarted(0)
	r.PageStarted(1)
	r.PageStarted(2)
	r.ScrapeComplete(3, 1500*time.Millisecond)
	r.DownloadStarted(3)
	r.ItemOutcome(3, downloader.Outcome{Kind: downloader.OutcomeSaved, FileName: "a_1920x1080.jpg"})
	r.ItemOutcome(2, downloader.Outcome{Kind: downloader.OutcomeExisted, FileName: "b_1920x1080.jpg"})
	r.ItemOutcome(1, downloader.Outcome{
		Kind:     downloader.OutcomeFailed,
		FileName: "c_1920x1080.jpg",
		Err:      errors.New("connection reset"),
	})
	r.RunComplete(&orchestrate.RunSummary{
		Found:   3,
		Saved:   1,
		Existed: 1,
		Failed:  1,
		Elapsed: 2 * time.Second,
	})
}

func TestConsoleReporterVerbose(t *testing.T) {
	r, out, errOut := newTestReporter(ModeVerbose)
	playRun(r)

	got := out.String()
	assert.Contains(t, got, Banner)
	assert.Contains(t, got, "Searching pages for images...")
	assert.Contains(t, got, "(The download will begin after the page scan finishes.)")
	assert.Contains(t, got, "Scanning Page 1...")
	assert.Contains(t, got, "Scanning Page 2...")
	assert.Contains(t, got, "Scrape completed in 1.50s. Found 3 images.")
	assert.Contains(t, got, "Starting Download...")
	assert.Contains(t, got, "[3] Saved: a_1920x1080.jpg")
	assert.Contains(t, got, "[1] Failed: c_1920x1080.jpg")
	assert.Contains(t, got, "Download completed in 2.00s.")
	assert.Contains(t, got, "Already had 1 images.")
	assert.Contains(t, got, "1 images failed to download.")

	assert.NotContains(t, got, "b_1920x1080.jpg", "existing files are only counted")
	assert.Empty(t, errOut.String())
}

func TestConsoleReporterOrder(t *testing.T) {
	r, out, _ := newTestReporter(ModeVerbose)
	playRun(r)

	got := out.String()
	order := []string{
		Banner,
		"Scanning Page 1...",
		"Scrape completed",
		"Starting Download...",
		"[3] Saved:",
		"[1] Failed:",
		"Download completed",
		"Already had",
	}
	last := -1
	for _, want := range order {
		idx := bytes.Index([]byte(got), []byte(want))
		assert.Greater(t, idx, last, "%q out of order", want)
		last = idx
	}
}

func TestConsoleReporterQuiet(t *testing.T) {
	r, out, errOut := newTestReporter(ModeQuiet)
	playRun(r)

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "[1] Failed: c_1920x1080.jpg")
	assert.Contains(t, errOut.String(), "connection reset")
}

func TestConsoleReporterProgressWithoutTerminal(t *testing.T) {
	r, out, _ := newTestReporter(ModeProgress)
	assert.False(t, r.interactive)

	playRun(r)

	assert.Contains(t, out.String(), "[3] Saved: a_1920x1080.jpg")
	assert.NotContains(t, out.String(), "Downloading")
}

func TestConsoleReporterProgressBar(t *testing.T) {
	r, out, _ := newTestReporter(ModeProgress)
	r.interactive = true

	playRun(r)

	got := out.String()
	assert.Contains(t, got, "Downloading")
	assert.NotContains(t, got, "Saved: a_1920x1080.jpg")
	assert.Contains(t, got, "[1] Failed: c_1920x1080.jpg")
	assert.Contains(t, got, "Already had 1 images.")
	assert.Nil(t, r.bar)
	assert.Empty(t, r.failures)
}

func TestConsoleReporterEmptyDownload(t *testing.T) {
	r, out, _ := newTestReporter(ModeProgress)
	r.interactive = true

	r.RunStarted(5)
	r.PageStarted(1)
	r.ScrapeComplete(0, time.Second)
	r.DownloadStarted(0)
	r.RunComplete(&orchestrate.RunSummary{})

	assert.Nil(t, r.bar)
	assert.Contains(t, out.String(), "Searching pages for 5 images...")
	assert.Contains(t, out.String(), "Already had 0 images.")
}

func TestSearchMessage(t *testing.T) {
	assert.Equal(t, "Searching pages for images...", SearchMessage(0))
	assert.Equal(t, "Searching pages for 10 images...", SearchMessage(10))
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0.00s"},
		{250 * time.Millisecond, "0.25s"},
		{90 * time.Second, "90.00s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSeconds(tt.in))
	}
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeProgress, ParseMode(false, false))
	assert.Equal(t, ModeVerbose, ParseMode(false, true))
	assert.Equal(t, ModeQuiet, ParseMode(true, false))
	assert.Equal(t, ModeQuiet, ParseMode(true, true))
}
