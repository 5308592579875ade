package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"galleryscraper/pkg/ui"
)

var _ ui.TUI = (*TUI)(nil)

// TUI represents the terminal user interface
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a TUI for batches of batchSize downloads
func NewTUI(batchSize int, opts ...tea.ProgramOption) *TUI {
	model := NewModel(batchSize)
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}

	return &TUI{
		program: tea.NewProgram(model, opts...),
		model:   model,
	}
}

// Start runs the TUI until the user quits or Stop is called
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Stop stops the TUI gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the TUI
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

// StartPage reports the listing page being requested
func (t *TUI) StartPage(page, lastPage int) {
	t.Send(PageStartMsg{Page: page, LastPage: lastPage})
}

// FailPage reports a page abandoned on error
func (t *TUI) FailPage(page int, err error) {
	t.Send(PageErrorMsg{Page: page, Error: err})
}

// SkipFile reports a photo already on disk
func (t *TUI) SkipFile(fileName string) {
	t.Send(SkipMsg{Filename: fileName})
}

// QueueDownload reports a photo added to the pending batch
func (t *TUI) QueueDownload(id, fileName string, page int) {
	t.Send(DownloadQueuedMsg{ID: id, Filename: fileName, Page: page})
}

// StartBatch reports the downloads of a batch that just started
func (t *TUI) StartBatch(number int, ids []string) {
	t.Send(BatchStartMsg{Number: number, IDs: ids})
}

// CompleteDownload reports a saved image
func (t *TUI) CompleteDownload(id string, size int64) {
	t.Send(DownloadCompleteMsg{ID: id, Size: size})
}

// FailDownload reports a failed image
func (t *TUI) FailDownload(id string, err error) {
	t.Send(DownloadErrorMsg{ID: id, Error: err})
}

// CompleteBatch reports the end of a batch
func (t *TUI) CompleteBatch(number, size, failed int) {
	t.Send(BatchCompleteMsg{Number: number, Size: size, Failed: failed})
}

// Finish shows the final summary and leaves the TUI open until the user quits
func (t *TUI) Finish(summary string) {
	t.Send(RunDoneMsg{Summary: summary})
}

// Log sends a log message to the TUI
func (t *TUI) Log(level, format string, args ...interface{}) {
	t.Send(LogMsg{Level: level, Message: fmt.Sprintf(format, args...)})
}

// LogInfo logs an info message
func (t *TUI) LogInfo(format string, args ...interface{}) {
	t.Log("INFO", format, args...)
}

// LogSuccess logs a success message
func (t *TUI) LogSuccess(format string, args ...interface{}) {
	t.Log("SUCCESS", format, args...)
}

// LogWarning logs a warning message
func (t *TUI) LogWarning(format string, args ...interface{}) {
	t.Log("WARN", format, args...)
}

// LogError logs an error message
func (t *TUI) LogError(format string, args ...interface{}) {
	t.Log("ERROR", format, args...)
}

// IsPaused reports whether the user paused the run
func (t *TUI) IsPaused() bool {
	t.model.mu.RLock()
	defer t.model.mu.RUnlock()
	return t.model.isPaused
}
