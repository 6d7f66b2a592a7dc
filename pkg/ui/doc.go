// Package ui renders wallget run progress on the console.
//
// ConsoleReporter implements orchestrate.Reporter. In the default progress
// mode it draws a progress bar when stdout is a terminal and falls back to
// one line per item otherwise; verbose mode always prints lines and quiet
// mode prints failures only, on stderr. Notifier sends an optional desktop
// notification when a run finishes.
package ui
