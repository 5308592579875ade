package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultBaseURL, cfg.Gallery.BaseURL)
	assert.Equal(t, DefaultGroupID, cfg.Gallery.GroupID)
	assert.Equal(t, 1, cfg.Gallery.StartPage)
	assert.Equal(t, 350, cfg.Gallery.TotalPages)
	assert.Equal(t, time.Duration(0), cfg.Gallery.RequestTimeout)
	assert.Equal(t, "./RacePhotos", cfg.Output.Directory)
	assert.Equal(t, 10, cfg.Download.BatchSize)
	assert.False(t, cfg.Download.FlushPerPage)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 350, cfg.LastPage())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GALLERYSCRAPER_BASE_URL", "http://localhost:8080/photos")
	t.Setenv("GALLERYSCRAPER_GROUP_ID", "group-42")
	t.Setenv("GALLERYSCRAPER_TOTAL_PAGES", "3")
	t.Setenv("GALLERYSCRAPER_START_PAGE", "2")
	t.Setenv("GALLERYSCRAPER_REQUEST_TIMEOUT", "15s")
	t.Setenv("GALLERYSCRAPER_OUTPUT_DIR", "/tmp/gallery")
	t.Setenv("GALLERYSCRAPER_BATCH_SIZE", "4")
	t.Setenv("GALLERYSCRAPER_FLUSH_PER_PAGE", "TRUE")
	t.Setenv("GALLERYSCRAPER_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "http://localhost:8080/photos", cfg.Gallery.BaseURL)
	assert.Equal(t, "group-42", cfg.Gallery.GroupID)
	assert.Equal(t, 3, cfg.Gallery.TotalPages)
	assert.Equal(t, 2, cfg.Gallery.StartPage)
	assert.Equal(t, 15*time.Second, cfg.Gallery.RequestTimeout)
	assert.Equal(t, "/tmp/gallery", cfg.Output.Directory)
	assert.Equal(t, 4, cfg.Download.BatchSize)
	assert.True(t, cfg.Download.FlushPerPage)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.LastPage())
}

func TestLoadFromEnvRejectsGarbage(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"pages", "GALLERYSCRAPER_TOTAL_PAGES", "many"},
		{"start page", "GALLERYSCRAPER_START_PAGE", "first"},
		{"batch size", "GALLERYSCRAPER_BATCH_SIZE", "ten"},
		{"timeout", "GALLERYSCRAPER_REQUEST_TIMEOUT", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			err := DefaultConfig().LoadFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"missing base URL", func(c *Config) { c.Gallery.BaseURL = "" }, "base URL is required"},
		{"relative base URL", func(c *Config) { c.Gallery.BaseURL = "/photos" }, "not an absolute URL"},
		{"missing group", func(c *Config) { c.Gallery.GroupID = "" }, "group ID is required"},
		{"zero start page", func(c *Config) { c.Gallery.StartPage = 0 }, "start page"},
		{"zero pages", func(c *Config) { c.Gallery.TotalPages = 0 }, "total pages"},
		{"negative timeout", func(c *Config) { c.Gallery.RequestTimeout = -time.Second }, "timeout"},
		{"missing output", func(c *Config) { c.Output.Directory = "" }, "output directory"},
		{"zero batch", func(c *Config) { c.Download.BatchSize = 0 }, "batch size"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gallery.GroupID = ""
	cfg.Download.BatchSize = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group ID")
	assert.Contains(t, err.Error(), "batch size")
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"base-url":        "http://example.test/photos",
		"group-id":        "abc",
		"pages":           7,
		"start-page":      3,
		"request-timeout": 5 * time.Second,
		"output":          "./out",
		"batch-size":      2,
		"flush-per-page":  true,
		"log-level":       "warn",
	})

	assert.Equal(t, "http://example.test/photos", cfg.Gallery.BaseURL)
	assert.Equal(t, "abc", cfg.Gallery.GroupID)
	assert.Equal(t, 7, cfg.Gallery.TotalPages)
	assert.Equal(t, 3, cfg.Gallery.StartPage)
	assert.Equal(t, 5*time.Second, cfg.Gallery.RequestTimeout)
	assert.Equal(t, "./out", cfg.Output.Directory)
	assert.Equal(t, 2, cfg.Download.BatchSize)
	assert.True(t, cfg.Download.FlushPerPage)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestMergeCommandLineFlagsIgnoresZeroValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"pages":      0,
		"batch-size": -3,
		"output":     "",
	})

	assert.Equal(t, DefaultTotalPages, cfg.Gallery.TotalPages)
	assert.Equal(t, DefaultBatchSize, cfg.Download.BatchSize)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	original := DefaultConfig()
	original.Gallery.GroupID = "saved-group"
	original.Gallery.TotalPages = 12
	original.Gallery.RequestTimeout = 45 * time.Second
	original.Download.BatchSize = 5
	require.NoError(t, original.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))

	assert.Equal(t, original, loaded)
}

func TestLoadFromFilePartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := map[string]interface{}{
		"gallery":  map[string]interface{}{"total_pages": 3},
		"download": map[string]interface{}{"batch_size": 4},
	}
	data, err := yaml.Marshal(content)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, 3, cfg.Gallery.TotalPages)
	assert.Equal(t, 4, cfg.Download.BatchSize)
	assert.Equal(t, DefaultGroupID, cfg.Gallery.GroupID)
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("gallery: [not, a, map"), 0644))
	err = cfg.LoadFromFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	fileCfg := DefaultConfig()
	fileCfg.Gallery.TotalPages = 20
	fileCfg.Download.BatchSize = 6
	fileCfg.Output.Directory = "./from-file"
	require.NoError(t, fileCfg.Save(path))

	t.Setenv("GALLERYSCRAPER_BATCH_SIZE", "8")

	cfg, err := Load(path, map[string]interface{}{"output": "./from-flag"})
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Gallery.TotalPages)
	assert.Equal(t, 8, cfg.Download.BatchSize)
	assert.Equal(t, "./from-flag", cfg.Output.Directory)
}

func TestLoadFailsValidation(t *testing.T) {
	t.Setenv("GALLERYSCRAPER_BASE_URL", "not a url")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}
