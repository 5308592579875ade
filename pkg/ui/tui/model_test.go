package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModel(t *testing.T) {
	model := NewModel(2)

	model.AddDownload("u1", "photo1.jpg", 1)
	model.AddDownload("u2", "photo2.jpg", 1)
	model.AddDownload("u3", "photo3.jpg", 2)

	if len(model.downloads) != 3 {
		t.Errorf("Expected 3 downloads, got %d", len(model.downloads))
	}
	if got := len(model.GetPendingDownloads()); got != 3 {
		t.Errorf("Expected 3 pending downloads, got %d", got)
	}

	model.StartBatch(1, []string{"u1", "u2"})
	if model.activeDownloads != 2 {
		t.Errorf("Expected 2 active downloads, got %d", model.activeDownloads)
	}
	if got := len(model.GetActiveDownloads()); got != 2 {
		t.Errorf("Expected 2 active items, got %d", got)
	}

	model.CompleteDownload("u1", 2048)
	model.FailDownload("u2", errors.New("404"))
	model.CompleteBatch(1, 1)

	if model.activeDownloads != 0 {
		t.Errorf("Expected 0 active downloads, got %d", model.activeDownloads)
	}
	if model.totalDownloaded != 1 || model.totalFailed != 1 {
		t.Errorf("Expected 1 downloaded and 1 failed, got %d and %d", model.totalDownloaded, model.totalFailed)
	}
	if model.totalSize != 2048 {
		t.Errorf("Expected total size 2048, got %d", model.totalSize)
	}
	if got := len(model.GetCompletedDownloads()); got != 1 {
		t.Errorf("Expected 1 completed download, got %d", got)
	}
	if model.batchesDone != 1 || model.lastBatchFailed != 1 {
		t.Errorf("Unexpected batch counters: %d done, %d failed", model.batchesDone, model.lastBatchFailed)
	}

	model.AddLogMessage("INFO", "Test message")
	if len(model.logMessages) != 1 {
		t.Errorf("Expected 1 log message, got %d", len(model.logMessages))
	}
}

func TestModelLogLimit(t *testing.T) {
	model := NewModel(1)
	for i := 0; i < 60; i++ {
		model.AddLogMessage("INFO", "line")
	}
	if len(model.logMessages) != model.maxLogMessages {
		t.Errorf("Expected %d log messages, got %d", model.maxLogMessages, len(model.logMessages))
	}
}

func TestUpdateMessages(t *testing.T) {
	model := NewModel(10)

	model.Update(PageStartMsg{Page: 3, LastPage: 350})
	model.Update(SkipMsg{Filename: "old.jpg"})
	model.Update(DownloadQueuedMsg{ID: "u1", Filename: "a.jpg", Page: 3})
	model.Update(BatchStartMsg{Number: 1, IDs: []string{"u1"}})
	model.Update(DownloadErrorMsg{ID: "u1", Error: errors.New("connection reset")})
	model.Update(PageErrorMsg{Page: 4, Error: errors.New("parsing error")})
	model.Update(RunDoneMsg{Summary: "Done downloading images"})

	if model.page != 3 || model.lastPage != 350 {
		t.Errorf("Expected page 3/350, got %d/%d", model.page, model.lastPage)
	}
	if model.totalSkipped != 1 || model.totalFailed != 1 || model.pagesFailed != 1 {
		t.Errorf("Unexpected counters: skipped %d, failed %d, pages failed %d",
			model.totalSkipped, model.totalFailed, model.pagesFailed)
	}
	if !model.finished {
		t.Error("Expected model to be finished")
	}

	var sawFailure bool
	for _, msg := range model.logMessages {
		if strings.Contains(msg.Message, "a.jpg - connection reset") {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Error("Expected failure to be logged")
	}
}

func TestKeyPresses(t *testing.T) {
	model := NewModel(10)

	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if !model.isPaused {
		t.Error("Expected p to pause")
	}
	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if model.isPaused {
		t.Error("Expected second p to resume")
	}

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected q to quit")
	}
}

func TestView(t *testing.T) {
	model := NewModel(10)
	if got := model.View(); got != "Initializing..." {
		t.Errorf("Expected placeholder before first resize, got %q", got)
	}

	model.Update(tea.WindowSizeMsg{Width: 160, Height: 60})
	model.Update(PageStartMsg{Page: 1, LastPage: 2})
	model.Update(DownloadQueuedMsg{ID: "u1", Filename: "queued.jpg", Page: 1})

	view := model.View()
	for _, want := range []string{"RUN STATS", "BATCH GATE", "DOWNLOAD QUEUE", "queued.jpg"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{500, "500 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}

	for _, test := range tests {
		result := FormatBytes(test.bytes)
		if result != test.expected {
			t.Errorf("FormatBytes(%d) = %s, expected %s", test.bytes, result, test.expected)
		}
	}
}

func TestFormatSpeed(t *testing.T) {
	tests := []struct {
		speed    float64
		expected string
	}{
		{1024, "1.0 KB/s"},
		{1024 * 1024, "1.0 MB/s"},
		{512 * 1024, "512.0 KB/s"},
	}

	for _, test := range tests {
		result := FormatSpeed(test.speed)
		if result != test.expected {
			t.Errorf("FormatSpeed(%f) = %s, expected %s", test.speed, result, test.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(-1); got != "00:00" {
		t.Errorf("Expected 00:00 for negative duration, got %s", got)
	}
	if got := formatDuration(3723e9); got != "01:02:03" {
		t.Errorf("Expected 01:02:03, got %s", got)
	}
}
