// Package orchestrate wires a complete wallget run.
//
// An Orchestrator turns a validated config.Config into a gallery client,
// rate limiter and storage manager, runs the page scan to completion, hands
// the links to the downloader and relays every event to a Reporter. The
// returned RunSummary counts saved, existing and failed items and records
// how long each phase took.
package orchestrate
