package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"galleryscraper/internal/downloader"
	"galleryscraper/pkg/config"
	"galleryscraper/pkg/gallery"
	"galleryscraper/pkg/logger"
	"galleryscraper/pkg/storage"
	"galleryscraper/pkg/ui"
)

const pausePollInterval = 200 * time.Millisecond

// Scraper walks the configured page range and downloads every photo not
// already present in the output folder
type Scraper struct {
	client         GalleryClient
	storageManager *storage.Manager
	tracker        *ui.StatusTracker
	config         *config.Config
	logger         logger.Logger
	tui            ui.TUI
	runID          string
}

// New creates a Scraper talking to the configured gallery. The output
// folder is created here; failing to create it is the only fatal error.
func New(cfg *config.Config, log logger.Logger) (*Scraper, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	runID := uuid.NewString()
	log = log.WithField("run_id", runID)
	return newScraper(cfg, gallery.NewClient(&cfg.Gallery, log), log, runID)
}

// NewWithClient creates a Scraper using client for all network access
func NewWithClient(cfg *config.Config, client GalleryClient, log logger.Logger) (*Scraper, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	runID := uuid.NewString()
	return newScraper(cfg, client, log.WithField("run_id", runID), runID)
}

func newScraper(cfg *config.Config, client GalleryClient, log logger.Logger, runID string) (*Scraper, error) {
	storageManager, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		log.WithError(err).WithField("output_dir", cfg.Output.Directory).Error("Failed to create storage manager")
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	return &Scraper{
		client:         client,
		storageManager: storageManager,
		tracker:        ui.NewStatusTracker(cfg.Gallery.TotalPages),
		config:         cfg,
		logger:         log,
		runID:          runID,
	}, nil
}

// SetTUI sets the terminal UI for the scraper
func (s *Scraper) SetTUI(tui ui.TUI) {
	s.tui = tui
}

// RunID returns the identifier attached to every log line of this scraper
func (s *Scraper) RunID() string {
	return s.runID
}

// Tracker returns the live run counters
func (s *Scraper) Tracker() *ui.StatusTracker {
	return s.tracker
}

// Run processes every page in order. Page and download failures are logged
// and never returned; cancelling ctx stops before the next page and drops
// the pending partial batch.
func (s *Scraper) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	firstPage, lastPage := s.config.Gallery.StartPage, s.config.LastPage()

	s.logger.InfoWithFields("Starting gallery download", map[string]interface{}{
		"first_page":     firstPage,
		"last_page":      lastPage,
		"output_dir":     s.storageManager.GetOutputDir(),
		"existing_files": s.storageManager.GetExistingCount(),
		"batch_size":     s.config.Download.BatchSize,
		"flush_per_page": s.config.Download.FlushPerPage,
	})
	if s.tui != nil {
		s.tui.LogInfo("Downloading pages %d-%d into %s", firstPage, lastPage, s.storageManager.GetOutputDir())
	}

	batcher := s.newBatcher()

	cancelled := false
	for page := firstPage; page <= lastPage; page++ {
		if err := s.waitWhilePaused(ctx); err != nil {
			cancelled = true
			break
		}
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		s.processPage(ctx, page, lastPage, batcher)

		if s.config.Download.FlushPerPage {
			batcher.Flush(ctx)
		}
	}

	dropped := 0
	if cancelled {
		dropped = batcher.Discard()
		s.logger.WarnWithFields("Run cancelled", map[string]interface{}{
			"dropped": dropped,
		})
	} else {
		batcher.Flush(ctx)
	}

	status := s.tracker.Snapshot()
	report := &Report{
		RunID:        s.runID,
		StartPage:    firstPage,
		LastPage:     lastPage,
		PagesFetched: status.PagesDone,
		PagesFailed:  status.PagesFailed,
		PhotosSeen:   status.Seen,
		Skipped:      status.Skipped,
		Queued:       status.Queued,
		Downloaded:   status.Downloaded,
		Failed:       status.Failed,
		BatchSizes:   batcher.BatchSizes(),
		Bytes:        status.Bytes,
		Elapsed:      time.Since(start),
		Cancelled:    cancelled,
		Dropped:      dropped,
	}

	logger.LogRunSummary(s.logger, report.Fields())
	if s.tui != nil {
		s.tui.LogSuccess("%s: %d downloaded, %d skipped, %d failed",
			logger.MsgRunDone, report.Downloaded, report.Skipped, report.Failed)
	}

	return report, nil
}

// newBatcher wires a batcher to the tracker and the TUI
func (s *Scraper) newBatcher() *downloader.Batcher {
	batcher := downloader.NewBatcher(s.config.Download.BatchSize, s.client, s.storageManager, s.logger)

	batcher.OnResult(func(r downloader.DownloadResult) {
		if r.Success {
			s.tracker.Complete(r.Size)
			if s.tui != nil {
				s.tui.CompleteDownload(r.Task.URL, r.Size)
			}
			return
		}
		s.tracker.Fail()
		if s.tui != nil {
			s.tui.FailDownload(r.Task.URL, r.Error)
		}
	})

	if s.tui != nil {
		batcher.OnBatchStart(func(number int, tasks []downloader.DownloadTask) {
			ids := make([]string, len(tasks))
			for i, t := range tasks {
				ids[i] = t.URL
			}
			s.tui.StartBatch(number, ids)
		})
		batcher.OnBatch(func(b downloader.BatchSummary) {
			s.tui.CompleteBatch(b.Number, b.Size, b.Failed)
		})
	}

	return batcher
}

// processPage fetches one page and feeds its new photos to the batcher. A
// fetch error or an undecodable record abandons the rest of the page; tasks
// already queued stay queued.
func (s *Scraper) processPage(ctx context.Context, page, lastPage int, batcher *downloader.Batcher) {
	s.tracker.StartPage(page)
	logger.LogPageStart(s.logger, page, lastPage)
	if s.tui != nil {
		s.tui.StartPage(page, lastPage)
	}

	records, err := s.client.FetchPage(ctx, page)
	if err != nil {
		s.failPage(page, err)
		return
	}

	for i, raw := range records {
		s.tracker.RecordSeen()

		rec, err := gallery.DecodeRecord(raw)
		if err != nil {
			s.failPage(page, fmt.Errorf("record %d: %w", i, err))
			return
		}

		if s.storageManager.Exists(rec.FileName) {
			s.tracker.Skip()
			logger.LogSkip(s.logger, rec.FileName)
			if s.tui != nil {
				s.tui.SkipFile(rec.FileName)
			}
			continue
		}

		task := downloader.DownloadTask{
			URL:      rec.URI,
			FileName: rec.FileName,
			Page:     page,
		}
		s.tracker.Queue()
		if s.tui != nil {
			s.tui.QueueDownload(task.URL, task.FileName, page)
		}
		batcher.Add(ctx, task)
	}

	s.tracker.PageDone()
}

func (s *Scraper) failPage(page int, err error) {
	s.tracker.PageFailed()
	logger.LogPageError(s.logger, page, err)
	if s.tui != nil {
		s.tui.FailPage(page, err)
	}
}

// waitWhilePaused blocks while the TUI is paused
func (s *Scraper) waitWhilePaused(ctx context.Context) error {
	if s.tui == nil || !s.tui.IsPaused() {
		return nil
	}

	s.logger.Info("Paused")
	ticker := time.NewTicker(pausePollInterval)
	defer ticker.Stop()

	for s.tui.IsPaused() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	s.logger.Info("Resumed")
	return nil
}
