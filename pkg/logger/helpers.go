package logger

import "time"

// Messages emitted by the domain helpers. Tests and the TUI match on them.
const (
	MsgPageStart   = "Fetching page"
	MsgPageError   = "Error fetching page"
	MsgSkipped     = "Skipped (already exists)"
	MsgDownloaded  = "Downloaded"
	MsgDownloadErr = "Failed to download"
	MsgBatchDone   = "Batch completed"
	MsgRunDone     = "Done downloading images"
)

func orGlobal(l Logger) Logger {
	if l == nil {
		return GetLogger()
	}
	return l
}

// LogPageStart logs the start of a listing page fetch
func LogPageStart(l Logger, page, lastPage int) {
	orGlobal(l).InfoWithFields(MsgPageStart, map[string]interface{}{
		"page":  page,
		"total": lastPage,
	})
}

// LogPageError logs a page-level failure; the run continues with the next page
func LogPageError(l Logger, page int, err error) {
	orGlobal(l).ErrorWithFields(MsgPageError, map[string]interface{}{
		"page":  page,
		"error": err.Error(),
	})
}

// LogSkip logs a photo whose destination file already exists
func LogSkip(l Logger, fileName string) {
	orGlobal(l).InfoWithFields(MsgSkipped, map[string]interface{}{
		"file": fileName,
	})
}

// LogDownload logs the terminal state of one image download
func LogDownload(l Logger, url, fileName string, size int64, duration time.Duration, err error) {
	if err != nil {
		orGlobal(l).WarnWithFields(MsgDownloadErr, map[string]interface{}{
			"url":   url,
			"file":  fileName,
			"error": err.Error(),
		})
		return
	}
	orGlobal(l).InfoWithFields(MsgDownloaded, map[string]interface{}{
		"file":     fileName,
		"size":     size,
		"duration": duration,
	})
}

// LogBatch logs completion of one download batch
func LogBatch(l Logger, number, size, failed int, duration time.Duration) {
	orGlobal(l).DebugWithFields(MsgBatchDone, map[string]interface{}{
		"batch":    number,
		"size":     size,
		"failed":   failed,
		"duration": duration,
	})
}

// LogRunSummary logs the final line of a run along with its counters
func LogRunSummary(l Logger, summary map[string]interface{}) {
	orGlobal(l).InfoWithFields(MsgRunDone, summary)
}

// LogComponentStart logs when a component starts
func LogComponentStart(l Logger, component string, config map[string]interface{}) {
	cl := orGlobal(l).WithField("component", component)
	if len(config) > 0 {
		cl = cl.WithFields(config)
	}
	cl.Debug("Component started")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
