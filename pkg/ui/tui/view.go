package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"galleryscraper/pkg/ui"
)

// View renders the entire TUI
func (m *Model) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderLogo())

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderLeftColumn(),
		"  ",
		m.renderRightColumn(),
	)
	sections = append(sections, mainContent)

	switch {
	case m.showHelp:
		sections = append(sections, m.renderHelp())
	case m.finished:
		sections = append(sections, successStyle.Render(m.summary+"  (press q to exit)"))
	default:
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

// renderLogo renders the banner
func (m *Model) renderLogo() string {
	return logoStyle.Width(m.width).Render(strings.TrimRight(ui.ASCIILogo, "\n"))
}

// renderLeftColumn renders run stats, the active batch and the queue
func (m *Model) renderLeftColumn() string {
	width := (m.width - 4) / 2

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatsPanel(width),
		m.renderActiveBatchPanel(width),
		m.renderQueuePanel(width),
	)
}

// renderRightColumn renders the batch gate and logs
func (m *Model) renderRightColumn() string {
	width := (m.width - 4) / 2

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderBatchGatePanel(width),
		m.renderLogsPanel(width),
	)
}

// renderStatsPanel renders page progress and totals
func (m *Model) renderStatsPanel(width int) string {
	title := titleStyle.Render(" RUN STATS ")

	elapsed := time.Since(m.sessionStartTime)
	avgSpeed, perMinute := m.downloadStats()

	stats := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Page:"),
			statsValueStyle.Render(fmt.Sprintf("%d/%d", m.page, m.lastPage))),
		m.pageBar.ViewAs(m.pageFraction()),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Session Time:"), statsValueStyle.Render(formatDuration(elapsed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Downloaded:"), statsValueStyle.Render(fmt.Sprintf("%d files (%s)", m.totalDownloaded, FormatBytes(m.totalSize)))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Skipped:"), statsValueStyle.Render(fmt.Sprintf("%d already on disk", m.totalSkipped))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Failed:"), errorStyle.Render(fmt.Sprintf("%d downloads, %d pages", m.totalFailed, m.pagesFailed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Average Speed:"), speedStyle.Render(fmt.Sprintf("%s, %.1f files/min", FormatSpeed(avgSpeed), perMinute))),
	}

	if m.isPaused {
		stats = append(stats, warningStyle.Render("⏸  PAUSED"))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, stats...)),
	)
}

// renderActiveBatchPanel lists the downloads of the running batch
func (m *Model) renderActiveBatchPanel(width int) string {
	title := titleStyle.Render(fmt.Sprintf(" BATCH %d ", m.currentBatch))

	active := m.byState(DownloadActive)
	if len(active) == 0 {
		content := lipgloss.NewStyle().Foreground(dimWhite).Render("No batch running")
		return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
	}

	var rows []string
	for _, item := range active {
		rows = append(rows, fmt.Sprintf("%s %s %s",
			m.spinner.View(),
			queueItemActiveStyle.Render(item.Filename),
			lipgloss.NewStyle().Foreground(dimWhite).Render(formatDuration(time.Since(item.StartTime))),
		))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...)),
	)
}

// renderQueuePanel renders pending and recently completed downloads
func (m *Model) renderQueuePanel(width int) string {
	title := titleStyle.Render(" DOWNLOAD QUEUE ")

	pending := m.byState(DownloadPending)
	completed := m.byState(DownloadCompleted)

	var items []string

	pendingCount := len(pending)
	if pendingCount > 0 {
		items = append(items, warningStyle.Render(fmt.Sprintf("⏳ %d pending", pendingCount)))
		for i := 0; i < 3 && i < pendingCount; i++ {
			items = append(items, queueItemStyle.Render(fmt.Sprintf("• %s (page %d)", pending[i].Filename, pending[i].Page)))
		}
		if pendingCount > 3 {
			items = append(items, lipgloss.NewStyle().Foreground(dimWhite).Render(fmt.Sprintf("  ... and %d more", pendingCount-3)))
		}
	}

	completedCount := len(completed)
	if completedCount > 0 {
		items = append(items, "", successStyle.Render(fmt.Sprintf("✓ %d completed", completedCount)))
		start := completedCount - 3
		if start < 0 {
			start = 0
		}
		for i := start; i < completedCount; i++ {
			items = append(items, queueItemCompletedStyle.Render(fmt.Sprintf("✓ %s %s", completed[i].Filename, FormatBytes(completed[i].Size))))
		}
	}

	if len(items) == 0 {
		items = append(items, lipgloss.NewStyle().Foreground(dimWhite).Render("Queue empty"))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, items...)),
	)
}

// renderBatchGatePanel shows how full the current batch is
func (m *Model) renderBatchGatePanel(width int) string {
	title := titleStyle.Render(" BATCH GATE ")

	load := 0.0
	if m.batchSize > 0 {
		load = float64(m.activeDownloads) / float64(m.batchSize) * 100
	}

	barStyle := GetBatchLoadStyle(load)
	bar := barStyle.Render(ui.RenderBar(m.activeDownloads, m.batchSize, width-8))

	content := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("In flight:"),
			barStyle.Render(fmt.Sprintf("%d/%d", m.activeDownloads, m.batchSize))),
		bar,
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Batches done:"), statsValueStyle.Render(fmt.Sprintf("%d", m.batchesDone))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Last batch failures:"), statsValueStyle.Render(fmt.Sprintf("%d", m.lastBatchFailed))),
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(content, "\n")),
	)
}

// renderLogsPanel renders the most recent log lines
func (m *Model) renderLogsPanel(width int) string {
	title := titleStyle.Render(" LOGS ")

	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	maxMsgLen := width - 25
	var logs []string
	for _, log := range m.logMessages[start:] {
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))

		text := log.Message
		if maxMsgLen > 3 && len(text) > maxMsgLen {
			text = text[:maxMsgLen-3] + "..."
		}

		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, logMessageStyle.Render(text)))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("No logs yet...")
	}

	logsHeight := m.height - 35
	if logsHeight < 5 {
		logsHeight = 5
	}

	return panelStyle.Width(width).Height(logsHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderHelp renders the help panel
func (m *Model) renderHelp() string {
	help := `
  Keys:
    q/Q      - Quit (the run is cancelled)
    p/P      - Pause/Resume before the next page
    ctrl+l   - Clear logs
    ?        - Toggle this help

  Status Indicators:
    ` + successStyle.Render("Green") + `    - Saved
    ` + warningStyle.Render("Orange") + `   - Pending
    ` + errorStyle.Render("Red") + `      - Failed
`

	return panelStyle.Width(m.width).Render(help)
}

// formatDuration formats a duration as [hh:]mm:ss
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
