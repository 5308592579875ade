package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"galleryscraper/pkg/config"
)

// TestHelper bundles a gallery server with a scratch output directory
type TestHelper struct {
	t      *testing.T
	Server *GalleryServer
}

// NewTestHelper starts a GalleryServer that is closed when the test ends
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	server := NewGalleryServer()
	t.Cleanup(server.Close)
	return &TestHelper{t: t, Server: server}
}

// CreateTestConfig returns a config pointed at the helper's server with a
// fresh output directory under t.TempDir()
func (h *TestHelper) CreateTestConfig(pages int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Gallery.BaseURL = h.Server.ListingURL()
	cfg.Gallery.GroupID = GroupID
	cfg.Gallery.StartPage = 1
	cfg.Gallery.TotalPages = pages
	cfg.Gallery.UserAgent = "TestBot/1.0"
	cfg.Gallery.RequestTimeout = 5 * time.Second
	cfg.Output.Directory = filepath.Join(h.t.TempDir(), "RacePhotos")
	cfg.Logging.Level = "debug"
	return cfg
}

// WriteFile creates dir/name with content, creating dir if needed
func (h *TestHelper) WriteFile(dir, name string, content []byte) {
	h.t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		h.t.Fatalf("Failed to create %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), content, 0644); err != nil {
		h.t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// ReadDirFiles returns the contents of every regular file in dir by name
func (h *TestHelper) ReadDirFiles(dir string) map[string][]byte {
	h.t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		h.t.Fatalf("Failed to read directory %s: %v", dir, err)
	}

	files := make(map[string][]byte)
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			h.t.Fatalf("Failed to read %s: %v", e.Name(), err)
		}
		files[e.Name()] = data
	}
	return files
}

// AssertDirContainsFiles checks the number of regular files in dir
func (h *TestHelper) AssertDirContainsFiles(dir string, expectedCount int) {
	h.t.Helper()
	if got := len(h.ReadDirFiles(dir)); got != expectedCount {
		h.t.Errorf("Directory %s contains %d files, expected %d", dir, got, expectedCount)
	}
}
