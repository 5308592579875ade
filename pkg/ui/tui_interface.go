package ui

// TUI receives run events for interactive display. Download events may
// arrive from several goroutines at once.
type TUI interface {
	StartPage(page, lastPage int)
	FailPage(page int, err error)
	SkipFile(fileName string)
	QueueDownload(id, fileName string, page int)
	StartBatch(number int, ids []string)
	CompleteDownload(id string, size int64)
	FailDownload(id string, err error)
	CompleteBatch(number, size, failed int)
	LogInfo(format string, args ...interface{})
	LogSuccess(format string, args ...interface{})
	LogWarning(format string, args ...interface{})
	LogError(format string, args ...interface{})
	IsPaused() bool
}
