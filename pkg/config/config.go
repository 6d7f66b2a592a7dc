package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"wallget/pkg/catalog"
)

// Config holds all configuration options for a wallget run
type Config struct {
	// What to fetch: resolution, limit and ordering
	Run RunConfig `yaml:"run" json:"run"`

	// Gallery endpoint and page structure
	Gallery GalleryConfig `yaml:"gallery" json:"gallery"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// RunConfig selects which images a run collects
type RunConfig struct {
	Resolution string   `yaml:"resolution" json:"resolution"`
	Limit      int      `yaml:"limit" json:"limit"` // 0 means unlimited
	Sort       SortMode `yaml:"sort" json:"sort"`
}

// GalleryConfig describes the paginated gallery being scraped
type GalleryConfig struct {
	BaseURL          string `yaml:"base_url" json:"base_url"`
	ListingPath      string `yaml:"listing_path" json:"listing_path"`
	ItemSelector     string `yaml:"item_selector" json:"item_selector"`
	LinkSelector     string `yaml:"link_selector" json:"link_selector"`
	NextPageSelector string `yaml:"next_page_selector" json:"next_page_selector"`
	UserAgent        string `yaml:"user_agent" json:"user_agent"`
	MaxPages         int    `yaml:"max_pages" json:"max_pages"` // 0 means unbounded
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int    `yaml:"requests_per_minute" json:"requests_per_minute"`
	Strategy          string `yaml:"strategy" json:"strategy"` // token_bucket or sliding_window
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	ConcurrentDownloads int           `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	DownloadTimeout     time.Duration `yaml:"download_timeout" json:"download_timeout"`
	PageTimeout         time.Duration `yaml:"page_timeout" json:"page_timeout"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

const (
	// MaxConcurrentDownloads bounds the download worker pool
	MaxConcurrentDownloads = 16

	RateLimitTokenBucket   = "token_bucket"
	RateLimitSlidingWindow = "sliding_window"
)

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			Resolution: catalog.DefaultResolution,
			Limit:      0,
			Sort:       SortDate,
		},
		Gallery: GalleryConfig{
			BaseURL:          "https://interfacelift.com",
			ListingPath:      "/wallpaper/downloads/{sort}/{resolution}/index{page}.html",
			ItemSelector:     "div.item",
			LinkSelector:     "div.download a[href]",
			NextPageSelector: "",
			UserAgent:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			MaxPages:         0,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			Strategy:          RateLimitTokenBucket,
		},
		Output: OutputConfig{
			Directory: ".",
		},
		Download: DownloadConfig{
			ConcurrentDownloads: 4,
			DownloadTimeout:     60 * time.Second,
			PageTimeout:         30 * time.Second,
		},
		Notifications: NotificationConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if resolution := os.Getenv("WALLGET_RESOLUTION"); resolution != "" {
		c.Run.Resolution = resolution
	}
	if limit := os.Getenv("WALLGET_LIMIT"); limit != "" {
		val, err := strconv.Atoi(limit)
		if err != nil {
			return fmt.Errorf("%q is not a valid download limit", limit)
		}
		c.Run.Limit = val
	}
	if sort := os.Getenv("WALLGET_SORT"); sort != "" {
		c.Run.Sort = SortMode(strings.ToLower(sort))
	}

	// Gallery
	if baseURL := os.Getenv("WALLGET_BASE_URL"); baseURL != "" {
		c.Gallery.BaseURL = baseURL
	}
	if userAgent := os.Getenv("WALLGET_USER_AGENT"); userAgent != "" {
		c.Gallery.UserAgent = userAgent
	}

	// Rate limiting
	if rpm := os.Getenv("WALLGET_REQUESTS_PER_MINUTE"); rpm != "" {
		val, err := strconv.Atoi(rpm)
		if err != nil {
			return fmt.Errorf("invalid WALLGET_REQUESTS_PER_MINUTE %q: %w", rpm, err)
		}
		c.RateLimit.RequestsPerMinute = val
	}

	// Output directory
	if outputDir := os.Getenv("WALLGET_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	// Concurrent downloads
	if concurrent := os.Getenv("WALLGET_CONCURRENT_DOWNLOADS"); concurrent != "" {
		val, err := strconv.Atoi(concurrent)
		if err != nil {
			return fmt.Errorf("invalid WALLGET_CONCURRENT_DOWNLOADS %q: %w", concurrent, err)
		}
		c.Download.ConcurrentDownloads = val
	}

	// Notifications
	if notifEnabled := os.Getenv("WALLGET_NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	// Logging level
	if logLevel := os.Getenv("WALLGET_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".wallget.yaml",
		".wallget.yml",
		filepath.Join(home, ".config", "wallget", "config.yaml"),
		filepath.Join(home, ".config", "wallget", "config.yml"),
		filepath.Join(home, ".wallget.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Every problem found is
// reported, joined into a single error.
func (c *Config) Validate() error {
	var errs []error

	// Run selection
	if !catalog.Has(c.Run.Resolution) {
		errs = append(errs, fmt.Errorf("%q is not a known resolution", c.Run.Resolution))
	}
	if c.Run.Limit < 0 {
		errs = append(errs, fmt.Errorf("%d is not a valid download limit", c.Run.Limit))
	}
	if !c.Run.Sort.IsValid() {
		errs = append(errs, fmt.Errorf("%q is not a valid sort parameter", c.Run.Sort))
	}

	// Gallery
	if u, err := url.Parse(c.Gallery.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid gallery base URL %q", c.Gallery.BaseURL))
	}
	if !strings.Contains(c.Gallery.ListingPath, "{page}") {
		errs = append(errs, errors.New("listing path must contain a {page} placeholder"))
	}
	if c.Gallery.LinkSelector == "" {
		errs = append(errs, errors.New("link selector is required"))
	}
	if c.Gallery.MaxPages < 0 {
		errs = append(errs, errors.New("max pages cannot be negative"))
	}

	// Rate limiting
	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	switch c.RateLimit.Strategy {
	case RateLimitTokenBucket, RateLimitSlidingWindow:
	default:
		errs = append(errs, fmt.Errorf("unknown rate limit strategy %q", c.RateLimit.Strategy))
	}

	// Download settings
	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > MaxConcurrentDownloads {
		errs = append(errs, fmt.Errorf("concurrent downloads should not exceed %d", MaxConcurrentDownloads))
	}
	if c.Download.DownloadTimeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.PageTimeout <= 0 {
		errs = append(errs, errors.New("page timeout must be positive"))
	}

	// Output directory must already exist
	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	} else if info, err := os.Stat(c.Output.Directory); err != nil {
		errs = append(errs, fmt.Errorf("the path %q does not exist", c.Output.Directory))
	} else if !info.IsDir() {
		errs = append(errs, fmt.Errorf("the path %q is not a directory", c.Output.Directory))
	}

	// Validate logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if resolution, ok := flags["resolution"].(string); ok && resolution != "" {
		c.Run.Resolution = resolution
	}
	if limit, ok := flags["limit"].(int); ok {
		c.Run.Limit = limit
	}
	if sort, ok := flags["sort"].(string); ok && sort != "" {
		c.Run.Sort = SortMode(strings.ToLower(sort))
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if concurrent, ok := flags["concurrent"].(int); ok {
		c.Download.ConcurrentDownloads = concurrent
	}
	if rpm, ok := flags["rate-limit"].(int); ok {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok {
		c.Download.DownloadTimeout = timeout
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Gallery.BaseURL = baseURL
	}
	if notify, ok := flags["notify"].(bool); ok {
		c.Notifications.Enabled = notify
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".wallget.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
