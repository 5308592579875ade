// Package logger provides structured logging for galleryscraper.
//
// It wraps zerolog behind a small Logger interface. Console output is the
// colored human-readable format; when a log file is configured every line is
// also appended to it as JSON.
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	log := logger.GetLogger().WithField("run_id", runID)
//	logger.LogPageStart(log, 1, cfg.LastPage())
//
// The Log* helpers emit the fixed set of run events (page start, page error,
// skip, download, batch, summary). TestLogger records messages for
// assertions and NewNopLogger discards everything.
package logger
