// Package logger provides a structured logging interface for wallget.
//
// It wraps the zerolog library with a small API offering leveled logging,
// structured fields, colored console output on stderr and an optional
// log file.
//
// Basic Usage:
//
//	import "wallget/pkg/logger"
//
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	    File:  "/var/log/wallget.log",
//	}
//	err := logger.Initialize(cfg)
//
//	log := logger.GetLogger().WithField("component", "downloader")
//	log.InfoWithFields("Saved wallpaper", map[string]interface{}{
//	    "file":     "04242_nightfall_1920x1080.jpg",
//	    "duration": time.Second,
//	})
//
// Tests can use NewTestLogger to capture messages, or NewNopLogger to
// discard them.
package logger
