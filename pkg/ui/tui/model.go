package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DownloadState represents the state of a download
type DownloadState int

const (
	DownloadPending DownloadState = iota
	DownloadActive
	DownloadCompleted
	DownloadFailed
)

// DownloadItem represents a single queued image
type DownloadItem struct {
	ID        string
	Filename  string
	Page      int
	Batch     int
	Size      int64
	State     DownloadState
	StartTime time.Time
	Duration  time.Duration
	Error     error
}

// Model represents the TUI model. Exported methods lock; lower-case
// helpers expect the caller to hold mu.
type Model struct {
	spinner spinner.Model
	pageBar progress.Model

	downloads       map[string]*DownloadItem
	downloadOrder   []string
	activeDownloads int
	batchSize       int
	currentBatch    int
	batchesDone     int
	lastBatchFailed int

	page        int
	lastPage    int
	pagesFailed int

	totalDownloaded  int
	totalFailed      int
	totalSkipped     int
	totalSize        int64
	sessionStartTime time.Time

	width          int
	height         int
	showHelp       bool
	isPaused       bool
	finished       bool
	summary        string
	logMessages    []LogMessage
	maxLogMessages int

	mu sync.RWMutex
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates a model for batches of batchSize downloads
func NewModel(batchSize int) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return &Model{
		spinner:          s,
		pageBar:          bar,
		downloads:        make(map[string]*DownloadItem),
		batchSize:        batchSize,
		sessionStartTime: time.Now(),
		maxLogMessages:   50,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// SetPage records the page being fetched
func (m *Model) SetPage(page, lastPage int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.page = page
	m.lastPage = lastPage
}

// FailPage counts a page that could not be processed
func (m *Model) FailPage() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pagesFailed++
}

// SkipFile counts a photo already on disk
func (m *Model) SkipFile() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalSkipped++
}

// AddDownload queues a download
func (m *Model) AddDownload(id, filename string, page int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.downloads[id]; !ok {
		m.downloadOrder = append(m.downloadOrder, id)
	}
	m.downloads[id] = &DownloadItem{
		ID:       id,
		Filename: filename,
		Page:     page,
		State:    DownloadPending,
	}
}

// StartBatch marks every listed download as active
func (m *Model) StartBatch(number int, ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentBatch = number
	now := time.Now()
	for _, id := range ids {
		if download, ok := m.downloads[id]; ok && download.State == DownloadPending {
			download.State = DownloadActive
			download.Batch = number
			download.StartTime = now
			m.activeDownloads++
		}
	}
}

// CompleteDownload marks a download as completed
func (m *Model) CompleteDownload(id string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if download, ok := m.downloads[id]; ok {
		m.finish(download)
		download.State = DownloadCompleted
		download.Size = size
		m.totalDownloaded++
		m.totalSize += size
	}
}

// FailDownload marks a download as failed
func (m *Model) FailDownload(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if download, ok := m.downloads[id]; ok {
		m.finish(download)
		download.State = DownloadFailed
		download.Error = err
		m.totalFailed++
	}
}

func (m *Model) finish(download *DownloadItem) {
	if download.State == DownloadActive {
		m.activeDownloads--
		download.Duration = time.Since(download.StartTime)
	}
}

// CompleteBatch records the end of a batch
func (m *Model) CompleteBatch(number, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchesDone = number
	m.lastBatchFailed = failed
}

// Finish freezes the display with a final summary line
func (m *Model) Finish(summary string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = true
	m.summary = summary
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	color := dimWhite
	switch level {
	case "ERROR":
		color = errorRed
	case "WARN":
		color = neonOrange
	case "SUCCESS":
		color = neonGreen
	case "INFO":
		color = neonCyan
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})

	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

func (m *Model) byState(state DownloadState) []*DownloadItem {
	var items []*DownloadItem
	for _, id := range m.downloadOrder {
		if download := m.downloads[id]; download != nil && download.State == state {
			items = append(items, download)
		}
	}
	return items
}

// GetActiveDownloads returns the downloads of the running batch
func (m *Model) GetActiveDownloads() []*DownloadItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byState(DownloadActive)
}

// GetPendingDownloads returns queued downloads waiting for a batch
func (m *Model) GetPendingDownloads() []*DownloadItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byState(DownloadPending)
}

// GetCompletedDownloads returns finished downloads
func (m *Model) GetCompletedDownloads() []*DownloadItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byState(DownloadCompleted)
}

// pageFraction returns the share of the page range already fetched
func (m *Model) pageFraction() float64 {
	if m.lastPage <= 0 {
		return 0
	}
	f := float64(m.page) / float64(m.lastPage)
	if f > 1 {
		f = 1
	}
	return f
}

// downloadStats returns average throughput and files per minute
func (m *Model) downloadStats() (avgSpeed float64, perMinute float64) {
	elapsed := time.Since(m.sessionStartTime)
	if elapsed <= 0 {
		return 0, 0
	}
	avgSpeed = float64(m.totalSize) / elapsed.Seconds()
	perMinute = float64(m.totalDownloaded) / elapsed.Minutes()
	return avgSpeed, perMinute
}

// FormatBytes formats bytes to human readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatSpeed formats speed in bytes per second
func FormatSpeed(bytesPerSecond float64) string {
	return fmt.Sprintf("%s/s", FormatBytes(int64(bytesPerSecond)))
}
