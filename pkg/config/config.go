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
)

// Default gallery endpoint and group the scraper was originally written for
const (
	DefaultBaseURL    = "https://raceroster.com/galleries/api/galleries/cm8vcfh8d00sx10pjdurnb31b/photos"
	DefaultGroupID    = "cm8vcodmi022811ps3vnddxko"
	DefaultTotalPages = 350
	DefaultOutputDir  = "./RacePhotos"
	DefaultBatchSize  = 10
)

// Config holds all configuration options for the gallery scraper
type Config struct {
	// Listing endpoint settings
	Gallery GalleryConfig `yaml:"gallery" json:"gallery"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// GalleryConfig holds the listing endpoint configuration
type GalleryConfig struct {
	BaseURL    string `yaml:"base_url" json:"base_url"`
	GroupID    string `yaml:"group_id" json:"group_id"`
	StartPage  int    `yaml:"start_page" json:"start_page"`
	TotalPages int    `yaml:"total_pages" json:"total_pages"`
	UserAgent  string `yaml:"user_agent" json:"user_agent"`
	// RequestTimeout of zero means requests never time out
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	BatchSize    int  `yaml:"batch_size" json:"batch_size"`
	FlushPerPage bool `yaml:"flush_per_page" json:"flush_per_page"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Gallery: GalleryConfig{
			BaseURL:        DefaultBaseURL,
			GroupID:        DefaultGroupID,
			StartPage:      1,
			TotalPages:     DefaultTotalPages,
			UserAgent:      "galleryscraper/1.0",
			RequestTimeout: 0,
		},
		Output: OutputConfig{
			Directory: DefaultOutputDir,
		},
		Download: DownloadConfig{
			BatchSize:    DefaultBatchSize,
			FlushPerPage: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("GALLERYSCRAPER_BASE_URL"); baseURL != "" {
		c.Gallery.BaseURL = baseURL
	}
	if groupID := os.Getenv("GALLERYSCRAPER_GROUP_ID"); groupID != "" {
		c.Gallery.GroupID = groupID
	}
	if userAgent := os.Getenv("GALLERYSCRAPER_USER_AGENT"); userAgent != "" {
		c.Gallery.UserAgent = userAgent
	}

	if pages := os.Getenv("GALLERYSCRAPER_TOTAL_PAGES"); pages != "" {
		val, err := strconv.Atoi(pages)
		if err != nil {
			return fmt.Errorf("invalid GALLERYSCRAPER_TOTAL_PAGES %q: %w", pages, err)
		}
		c.Gallery.TotalPages = val
	}
	if start := os.Getenv("GALLERYSCRAPER_START_PAGE"); start != "" {
		val, err := strconv.Atoi(start)
		if err != nil {
			return fmt.Errorf("invalid GALLERYSCRAPER_START_PAGE %q: %w", start, err)
		}
		c.Gallery.StartPage = val
	}
	if timeout := os.Getenv("GALLERYSCRAPER_REQUEST_TIMEOUT"); timeout != "" {
		val, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid GALLERYSCRAPER_REQUEST_TIMEOUT %q: %w", timeout, err)
		}
		c.Gallery.RequestTimeout = val
	}

	if outputDir := os.Getenv("GALLERYSCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	if batch := os.Getenv("GALLERYSCRAPER_BATCH_SIZE"); batch != "" {
		val, err := strconv.Atoi(batch)
		if err != nil {
			return fmt.Errorf("invalid GALLERYSCRAPER_BATCH_SIZE %q: %w", batch, err)
		}
		c.Download.BatchSize = val
	}
	if flush := os.Getenv("GALLERYSCRAPER_FLUSH_PER_PAGE"); flush != "" {
		c.Download.FlushPerPage = strings.ToLower(flush) == "true"
	}

	if logLevel := os.Getenv("GALLERYSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("GALLERYSCRAPER_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
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
		".galleryscraper.yaml",
		".galleryscraper.yml",
		filepath.Join(home, ".config", "galleryscraper", "config.yaml"),
		filepath.Join(home, ".config", "galleryscraper", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Gallery.BaseURL == "" {
		errs = append(errs, errors.New("gallery base URL is required"))
	} else if u, err := url.Parse(c.Gallery.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("gallery base URL %q is not an absolute URL", c.Gallery.BaseURL))
	}
	if c.Gallery.GroupID == "" {
		errs = append(errs, errors.New("gallery group ID is required"))
	}
	if c.Gallery.StartPage < 1 {
		errs = append(errs, errors.New("start page must be at least 1"))
	}
	if c.Gallery.TotalPages <= 0 {
		errs = append(errs, errors.New("total pages must be positive"))
	}
	if c.Gallery.RequestTimeout < 0 {
		errs = append(errs, errors.New("request timeout cannot be negative"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	if c.Download.BatchSize <= 0 {
		errs = append(errs, errors.New("batch size must be positive"))
	}

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

// LastPage returns the final page number the run will request
func (c *Config) LastPage() int {
	return c.Gallery.StartPage + c.Gallery.TotalPages - 1
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

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Gallery.BaseURL = baseURL
	}
	if groupID, ok := flags["group-id"].(string); ok && groupID != "" {
		c.Gallery.GroupID = groupID
	}
	if pages, ok := flags["pages"].(int); ok && pages > 0 {
		c.Gallery.TotalPages = pages
	}
	if start, ok := flags["start-page"].(int); ok && start > 0 {
		c.Gallery.StartPage = start
	}
	if timeout, ok := flags["request-timeout"].(time.Duration); ok && timeout >= 0 {
		c.Gallery.RequestTimeout = timeout
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if batch, ok := flags["batch-size"].(int); ok && batch > 0 {
		c.Download.BatchSize = batch
	}
	if flush, ok := flags["flush-per-page"].(bool); ok {
		c.Download.FlushPerPage = flush
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".galleryscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
