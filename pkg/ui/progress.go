package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// Status is a point-in-time copy of a StatusTracker
type Status struct {
	Page        int
	TotalPages  int
	PagesDone   int
	PagesFailed int
	Seen        int
	Skipped     int
	Queued      int
	Downloaded  int
	Failed      int
	Bytes       int64
	Elapsed     time.Duration
}

// StatusTracker counts run progress. Download outcomes arrive from batch
// goroutines, so every method is safe for concurrent use.
type StatusTracker struct {
	mu        sync.Mutex
	status    Status
	StartTime time.Time
}

// NewStatusTracker creates a tracker for a run over totalPages pages
func NewStatusTracker(totalPages int) *StatusTracker {
	return &StatusTracker{
		status:    Status{TotalPages: totalPages},
		StartTime: time.Now(),
	}
}

func (st *StatusTracker) update(fn func(s *Status)) {
	st.mu.Lock()
	fn(&st.status)
	st.mu.Unlock()
}

// StartPage records the page currently being fetched
func (st *StatusTracker) StartPage(page int) {
	st.update(func(s *Status) { s.Page = page })
}

// PageDone records a page whose records were all handled
func (st *StatusTracker) PageDone() {
	st.update(func(s *Status) { s.PagesDone++ })
}

// PageFailed records a page abandoned on error
func (st *StatusTracker) PageFailed() {
	st.update(func(s *Status) { s.PagesFailed++ })
}

// RecordSeen counts one photo record read from a listing
func (st *StatusTracker) RecordSeen() {
	st.update(func(s *Status) { s.Seen++ })
}

// Skip counts a photo already on disk
func (st *StatusTracker) Skip() {
	st.update(func(s *Status) { s.Skipped++ })
}

// Queue counts a photo handed to the downloader
func (st *StatusTracker) Queue() {
	st.update(func(s *Status) { s.Queued++ })
}

// Complete counts a finished download of size bytes
func (st *StatusTracker) Complete(size int64) {
	st.update(func(s *Status) {
		s.Downloaded++
		s.Bytes += size
	})
}

// Fail counts a failed download
func (st *StatusTracker) Fail() {
	st.update(func(s *Status) { s.Failed++ })
}

// Snapshot returns a copy of the current counters
func (st *StatusTracker) Snapshot() Status {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.status
	s.Elapsed = time.Since(st.StartTime)
	return s
}

// GetDownloadRate returns the average download rate in files per minute
func (st *StatusTracker) GetDownloadRate() float64 {
	s := st.Snapshot()
	minutes := s.Elapsed.Minutes()
	if minutes == 0 {
		return 0
	}
	return float64(s.Downloaded) / minutes
}

// RenderBar draws a fixed-width bar for current out of total
func RenderBar(current, total, width int) string {
	filled := 0
	if total > 0 {
		filled = current * width / total
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, width-filled)
}

// GetPageProgress returns a formatted bar of pages handled so far
func (st *StatusTracker) GetPageProgress() string {
	s := st.Snapshot()
	handled := s.PagesDone + s.PagesFailed
	return fmt.Sprintf("[%s] %d/%d", RenderBar(handled, s.TotalPages, 20), handled, s.TotalPages)
}

// PrintSummary prints the end-of-run counters
func (st *StatusTracker) PrintSummary() {
	if IsQuietMode() {
		return
	}
	s := st.Snapshot()
	fmt.Fprintf(output, "\n%s %s\n", Magenta("[PAGES]"), Yellow(st.GetPageProgress()))
	fmt.Fprintf(output, "%s %d  %s %d  %s %d  %s %s\n",
		Green("downloaded"), s.Downloaded,
		Cyan("skipped"), s.Skipped,
		Red("failed"), s.Failed,
		Dim("elapsed"), s.Elapsed.Round(time.Millisecond))
}
