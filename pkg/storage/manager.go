package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Manager owns the output folder. A file with the photo's name being
// present is the only "already downloaded" signal; contents are never checked.
type Manager struct {
	outputDir     string
	existingFiles int
}

// NewManager creates outputDir if needed and counts the files already in it
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{outputDir: outputDir}
	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// scanExistingFiles counts regular files present before the run
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.Type().IsRegular() {
			m.existingFiles++
		}
	}

	return nil
}

// Path returns the destination path for fileName. The name is used as-is.
func (m *Manager) Path(fileName string) string {
	return filepath.Join(m.outputDir, fileName)
}

// Exists reports whether a regular file already sits at fileName's
// destination. Directories and other special files do not count.
func (m *Manager) Exists(fileName string) bool {
	info, err := os.Stat(m.Path(fileName))
	return err == nil && info.Mode().IsRegular()
}

// Create creates or truncates the destination file for fileName
func (m *Manager) Create(fileName string) (*os.File, error) {
	f, err := os.Create(m.Path(fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return f, nil
}

// Save streams r into fileName's destination and returns the bytes written.
// A failed copy leaves the partial file in place.
func (m *Manager) Save(r io.Reader, fileName string) (int64, error) {
	out, err := m.Create(fileName)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		return n, fmt.Errorf("failed to write file: %w", err)
	}
	if closeErr != nil {
		return n, fmt.Errorf("failed to close file: %w", closeErr)
	}

	return n, nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetExistingCount returns the number of files found when the manager was created
func (m *Manager) GetExistingCount() int {
	return m.existingFiles
}
