// Package config loads and validates wallget configuration.
//
// Configuration is merged from several sources, later ones winning:
//
//	defaults < config file < .env file < WALLGET_* environment < command line flags
//
// Load a fully validated configuration:
//
//	cfg, err := config.Load("", map[string]interface{}{
//	    "resolution": "2880x1800",
//	    "sort":       "ratings",
//	    "limit":      5,
//	    "output":     "/Users/me/Pictures",
//	})
//
// A config file uses the same keys as the struct tags:
//
//	run:
//	  resolution: 2560x1440
//	  sort: ratings
//	download:
//	  concurrent_downloads: 6
//	  download_timeout: 90s
package config
