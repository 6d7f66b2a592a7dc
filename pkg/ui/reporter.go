package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"wallget/internal/downloader"
	"wallget/pkg/orchestrate"
)

// Mode selects how much the reporter prints
type Mode int

const (
	// ModeVerbose prints one line per saved or failed item
	ModeVerbose Mode = iota
	// ModeProgress replaces per-item lines with a progress bar on terminals
	ModeProgress
	// ModeQuiet prints failures only
	ModeQuiet
)

// ParseMode maps the quiet and verbose switches to a Mode. Progress mode
// is the default.
func ParseMode(quiet, verbose bool) Mode {
	switch {
	case quiet:
		return ModeQuiet
	case verbose:
		return ModeVerbose
	default:
		return ModeProgress
	}
}

// ConsoleReporter prints run progress to a Console
type ConsoleReporter struct {
	mu      sync.Mutex
	console *Console
	mode    Mode

	// interactive enables the progress bar
	interactive bool
	bar         *progressbar.ProgressBar
	failures    []string
}

var _ orchestrate.Reporter = (*ConsoleReporter)(nil)

// NewConsoleReporter creates a reporter. The progress bar is only used in
// ModeProgress when the console output is a terminal.
func NewConsoleReporter(console *Console, mode Mode) *ConsoleReporter {
	if console == nil {
		console = NewConsole(nil, nil)
	}

	return &ConsoleReporter{
		console:     console,
		mode:        mode,
		interactive: mode == ModeProgress && console.IsTerminal(),
	}
}

func (r *ConsoleReporter) quiet() bool {
	return r.mode == ModeQuiet
}

// RunStarted prints the banner and the search line
func (r *ConsoleReporter) RunStarted(limit int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.quiet() {
		return
	}

	r.console.PrintLogo()
	r.console.Println(SearchMessage(limit))
	r.console.PrintDim("(The download will begin after the page scan finishes.)")
}

// PageStarted prints the page being scanned
func (r *ConsoleReporter) PageStarted(page int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.quiet() {
		return
	}
	r.console.Println(fmt.Sprintf("Scanning Page %d...", page))
}

// ScrapeComplete prints the scan result
func (r *ConsoleReporter) ScrapeComplete(found int, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.quiet() {
		return
	}
	r.console.Println(fmt.Sprintf("Scrape completed in %s. Found %d images.", FormatSeconds(elapsed), found))
}

// DownloadStarted prints the download header and sets up the bar
func (r *ConsoleReporter) DownloadStarted(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.quiet() {
		return
	}

	r.console.PrintHighlight("Starting Download...")
	r.console.Println("")

	if r.interactive && total > 0 {
		r.bar = newProgressBar(r.console, total)
	}
}

// ItemOutcome prints one item result
func (r *ConsoleReporter) ItemOutcome(remaining int, outcome downloader.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if outcome.Kind == downloader.OutcomeFailed {
		line := fmt.Sprintf("[%d] Failed: %s", remaining, outcome.FileName)
		switch {
		case r.quiet():
			r.console.PrintError(line, outcome.Err)
		case r.bar != nil:
			r.failures = append(r.failures, line)
		default:
			r.console.PrintWarning(line)
		}
	}

	if r.bar != nil {
		_ = r.bar.Add(1)
		return
	}

	if outcome.Kind == downloader.OutcomeSaved && !r.quiet() {
		r.console.Println(fmt.Sprintf("[%d] Saved: %s", remaining, outcome.FileName))
	}
}

// RunComplete closes the bar and prints the totals
func (r *ConsoleReporter) RunComplete(summary *orchestrate.RunSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
		r.console.Println("")
		for _, line := range r.failures {
			r.console.PrintWarning(line)
		}
		r.failures = nil
	}

	if r.quiet() || summary == nil {
		return
	}

	r.console.PrintSuccess(fmt.Sprintf("Download completed in %s.", FormatSeconds(summary.Elapsed)))
	r.console.Println(fmt.Sprintf("Already had %d images.", summary.Existed))
	if summary.HasFailures() {
		r.console.PrintWarning(fmt.Sprintf("%d images failed to download.", summary.Failed))
	}
}

// SearchMessage is the line printed before scanning. A limit of 0 means
// every image is wanted.
func SearchMessage(limit int) string {
	if limit == 0 {
		return "Searching pages for images..."
	}
	return fmt.Sprintf("Searching pages for %d images...", limit)
}

// FormatSeconds renders a duration in seconds with two decimals
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func newProgressBar(console *Console, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(console.Out()),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionSetItsString("img"),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
