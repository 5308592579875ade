package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// PageStartMsg is sent when a listing page is requested
type PageStartMsg struct {
	Page     int
	LastPage int
}

// PageErrorMsg is sent when a page is abandoned
type PageErrorMsg struct {
	Page  int
	Error error
}

// SkipMsg is sent for a photo already on disk
type SkipMsg struct {
	Filename string
}

// DownloadQueuedMsg is sent when a photo joins the pending batch
type DownloadQueuedMsg struct {
	ID       string
	Filename string
	Page     int
}

// BatchStartMsg is sent when a batch begins executing
type BatchStartMsg struct {
	Number int
	IDs    []string
}

// DownloadCompleteMsg is sent when a download completes
type DownloadCompleteMsg struct {
	ID   string
	Size int64
}

// DownloadErrorMsg is sent when a download fails
type DownloadErrorMsg struct {
	ID    string
	Error error
}

// BatchCompleteMsg is sent after every task of a batch has finished
type BatchCompleteMsg struct {
	Number int
	Size   int
	Failed int
}

// RunDoneMsg is sent once the run is over
type RunDoneMsg struct {
	Summary string
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.mu.Lock()
		m.width = msg.Width
		m.height = msg.Height
		m.pageBar.Width = msg.Width/2 - 12
		m.mu.Unlock()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.mu.Lock()
		m.spinner, cmd = m.spinner.Update(msg)
		m.mu.Unlock()
		return m, cmd

	case TickMsg:
		return m, tickCmd()

	case PageStartMsg:
		m.SetPage(msg.Page, msg.LastPage)
		return m, nil

	case PageErrorMsg:
		m.FailPage()
		m.AddLogMessage("ERROR", fmt.Sprintf("Page %d: %v", msg.Page, msg.Error))
		return m, nil

	case SkipMsg:
		m.SkipFile()
		return m, nil

	case DownloadQueuedMsg:
		m.AddDownload(msg.ID, msg.Filename, msg.Page)
		return m, nil

	case BatchStartMsg:
		m.StartBatch(msg.Number, msg.IDs)
		return m, nil

	case DownloadCompleteMsg:
		m.CompleteDownload(msg.ID, msg.Size)
		return m, nil

	case DownloadErrorMsg:
		m.FailDownload(msg.ID, msg.Error)
		m.mu.RLock()
		download, ok := m.downloads[msg.ID]
		m.mu.RUnlock()
		if ok {
			m.AddLogMessage("ERROR", "Failed: "+download.Filename+" - "+msg.Error.Error())
		}
		return m, nil

	case BatchCompleteMsg:
		m.CompleteBatch(msg.Number, msg.Failed)
		m.AddLogMessage("SUCCESS", fmt.Sprintf("Batch %d done: %d/%d saved", msg.Number, msg.Size-msg.Failed, msg.Size))
		return m, nil

	case RunDoneMsg:
		m.Finish(msg.Summary)
		m.AddLogMessage("SUCCESS", msg.Summary)
		return m, nil

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "p", "P":
		m.mu.Lock()
		m.isPaused = !m.isPaused
		paused := m.isPaused
		m.mu.Unlock()
		if paused {
			m.AddLogMessage("WARN", "Paused before the next page")
		} else {
			m.AddLogMessage("INFO", "Resumed")
		}
		return m, nil

	case "?":
		m.mu.Lock()
		m.showHelp = !m.showHelp
		m.mu.Unlock()
		return m, nil

	case "ctrl+l":
		m.mu.Lock()
		m.logMessages = nil
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*250, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
