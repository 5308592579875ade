package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"galleryscraper/pkg/config"
)

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"30s", 30 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"0", 0, false},
		{"45", 45 * time.Second, false},
		{"-5s", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimeout(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScrapeFlagsOnlyIncludesChangedFlags(t *testing.T) {
	require.NoError(t, scrapeCmd.ParseFlags([]string{"--pages", "5", "--batch-size", "3", "--request-timeout", "10s"}))

	flags, err := scrapeFlags(scrapeCmd)
	require.NoError(t, err)

	assert.Equal(t, 5, flags["pages"])
	assert.Equal(t, 3, flags["batch-size"])
	assert.Equal(t, 10*time.Second, flags["request-timeout"])
	assert.NotContains(t, flags, "base-url")
	assert.NotContains(t, flags, "output")
	assert.NotContains(t, flags, "flush-per-page")
}

func TestExampleConfigLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(exampleConfig()), 0644))

	var fromFile config.Config
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &fromFile))

	defaults := config.DefaultConfig()
	assert.Equal(t, defaults.Gallery, fromFile.Gallery)
	assert.Equal(t, defaults.Output, fromFile.Output)
	assert.Equal(t, defaults.Download, fromFile.Download)
	assert.Equal(t, defaults.Logging, fromFile.Logging)
}
