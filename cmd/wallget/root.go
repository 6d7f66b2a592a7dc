package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wallget/pkg/catalog"
	"wallget/pkg/config"
	"wallget/pkg/logger"
	"wallget/pkg/orchestrate"
	"wallget/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

const (
	exitConfig   = 1
	exitFailures = 2
)

// exitError carries the process exit status out of a command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// rootOptions holds the parsed command line
type rootOptions struct {
	configFile      string
	resolution      string
	limit           int
	sort            string
	concurrent      int
	rateLimit       int
	timeout         time.Duration
	baseURL         string
	logLevel        string
	quiet           bool
	verbose         bool
	notify          bool
	failOnError     bool
	listResolutions bool
}

// newRootCmd builds the wallget command writing to out and errOut
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "wallget [flags] [path]",
		Short: "Download wallpapers from a paginated gallery",
		Long: `wallget scans a wallpaper gallery page by page for images at the chosen
resolution and downloads every image that is not already in the target
directory.

Path is the directory the images are saved to and must already exist.
It defaults to the current directory.`,
		Example: `  # Download every 2880x1800 wallpaper, best rated first, into the current directory
  wallget --resolution 2880x1800 --sort ratings

  # Download the 5 most highly rated 1920x1080 wallpapers into ~/Pictures
  wallget --limit 5 --sort ratings ~/Pictures`,
		Args:          cobra.MaximumNArgs(1),
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, args)
		},
	}

	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default is ./.wallget.yaml or $HOME/.config/wallget/config.yaml)")
	flags.StringVar(&opts.resolution, "resolution", catalog.DefaultResolution, "image resolution to search for")
	flags.IntVar(&opts.limit, "limit", 0, "maximum number of images to download, 0 means unlimited")
	flags.StringVar(&opts.sort, "sort", config.SortDate.String(), "listing order: date or ratings")
	flags.IntVar(&opts.concurrent, "concurrent", 4, "number of concurrent downloads")
	flags.IntVar(&opts.rateLimit, "rate-limit", 60, "requests per minute")
	flags.DurationVar(&opts.timeout, "timeout", 60*time.Second, "timeout for each image download")
	flags.StringVar(&opts.baseURL, "base-url", "", "gallery base URL")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except errors")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print every saved image and all logs")
	flags.BoolVar(&opts.notify, "notify", false, "send a desktop notification when the run finishes")
	flags.BoolVar(&opts.failOnError, "fail-on-error", false, "exit with status 2 when any image failed")
	flags.BoolVar(&opts.listResolutions, "list-resolutions", false, "print the known resolutions and exit")

	cmd.SetVersionTemplate(`wallget {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}

// flagOverrides collects the flags the user actually set, so that config
// file and environment values are not replaced by flag defaults
func flagOverrides(cmd *cobra.Command, opts *rootOptions, mode ui.Mode) map[string]interface{} {
	overrides := make(map[string]interface{})
	changed := cmd.Flags().Changed

	if changed("resolution") {
		overrides["resolution"] = opts.resolution
	}
	if changed("limit") {
		overrides["limit"] = opts.limit
	}
	if changed("sort") {
		overrides["sort"] = opts.sort
	}
	if changed("concurrent") {
		overrides["concurrent"] = opts.concurrent
	}
	if changed("rate-limit") {
		overrides["rate-limit"] = opts.rateLimit
	}
	if changed("timeout") {
		overrides["timeout"] = opts.timeout
	}
	if changed("base-url") {
		overrides["base-url"] = opts.baseURL
	}
	if changed("notify") {
		overrides["notify"] = opts.notify
	}

	switch {
	case changed("log-level"):
		overrides["log-level"] = opts.logLevel
	case mode != ui.ModeVerbose:
		// Keep log lines out of the progress output
		overrides["log-level"] = "error"
	}

	return overrides
}

func runRoot(cmd *cobra.Command, opts *rootOptions, args []string) error {
	console := ui.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.listResolutions {
		for _, label := range catalog.Labels() {
			console.Println(label)
		}
		return nil
	}

	if opts.quiet && opts.verbose {
		err := errors.New("--quiet and --verbose cannot be used together")
		console.PrintError(err.Error())
		return &exitError{code: exitConfig, err: err}
	}

	mode := ui.ParseMode(opts.quiet, opts.verbose)
	overrides := flagOverrides(cmd, opts, mode)

	if len(args) == 1 {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			console.PrintError("Invalid path", err)
			return &exitError{code: exitConfig, err: err}
		}
		overrides["output"] = dir
	}

	cfg, err := config.Load(opts.configFile, overrides)
	if err != nil {
		console.PrintError("Failed to load configuration", indentJoined(err))
		return &exitError{code: exitConfig, err: err}
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		console.PrintError("Failed to initialize logger", err)
		return &exitError{code: exitConfig, err: err}
	}
	log := logger.GetLogger()
	log.WithField("version", version).Debug("wallget starting")

	reporter := ui.NewConsoleReporter(console, mode)
	summary, err := orchestrate.New(cfg, reporter, log).Run(cmd.Context())
	if err != nil {
		console.PrintError("Run failed", err)
		return &exitError{code: exitConfig, err: err}
	}

	if cfg.Notifications.Enabled {
		ui.NewNotifier(console).RunComplete(summary)
	}

	if opts.failOnError && summary.HasFailures() {
		return &exitError{
			code: exitFailures,
			err:  fmt.Errorf("%d of %d images failed", summary.Failed, summary.Total()),
		}
	}

	return nil
}

// indentJoined puts each joined validation error on its own line
func indentJoined(err error) string {
	lines := strings.Split(err.Error(), "\n")
	if len(lines) == 1 {
		return lines[0]
	}
	return "\n  " + strings.Join(lines, "\n  ")
}

// Execute runs the root command and returns the process exit status
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		// Flag and argument errors from cobra itself
		fmt.Fprintln(os.Stderr, err)
		return exitConfig
	}

	return 0
}
