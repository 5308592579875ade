package downloader

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"galleryscraper/pkg/logger"
)

// DownloadTask pairs an image URL with its destination file name
type DownloadTask struct {
	URL      string
	FileName string
	Page     int
}

// DownloadResult is the terminal state of one task. Failures are reported
// here and never returned as errors.
type DownloadResult struct {
	Task     DownloadTask
	Success  bool
	Error    error
	Size     int64
	Duration time.Duration
}

// BatchSummary describes one executed batch
type BatchSummary struct {
	Number   int
	Size     int
	Failed   int
	Duration time.Duration
}

// ImageSource opens the body of a remote image
type ImageSource interface {
	OpenImage(ctx context.Context, url string) (io.ReadCloser, error)
}

// ImageStore writes an image body to its destination
type ImageStore interface {
	Save(r io.Reader, fileName string) (int64, error)
}

// Batcher collects download tasks and runs them in fixed-size batches. A
// batch starts when the pending set reaches capacity and is fully awaited
// before Add returns, so batches never overlap. Batcher is driven by a
// single goroutine.
type Batcher struct {
	capacity   int
	pending    []DownloadTask
	batchSizes []int
	client     ImageSource
	store      ImageStore
	logger     logger.Logger
	onStart    func(number int, tasks []DownloadTask)
	onResult   func(DownloadResult)
	onBatch    func(BatchSummary)
}

// NewBatcher creates a batcher running at most capacity downloads at a time
func NewBatcher(capacity int, client ImageSource, store ImageStore, log logger.Logger) *Batcher {
	if capacity < 1 {
		capacity = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}

	logger.LogComponentStart(log, "downloader", map[string]interface{}{
		"batch_size": capacity,
	})

	return &Batcher{
		capacity: capacity,
		pending:  make([]DownloadTask, 0, capacity),
		client:   client,
		store:    store,
		logger:   log,
	}
}

// OnBatchStart registers fn to receive the tasks of each batch before it runs
func (b *Batcher) OnBatchStart(fn func(number int, tasks []DownloadTask)) {
	b.onStart = fn
}

// OnResult registers fn to receive every result as soon as its download
// ends. fn is called from the download goroutines and must be safe for
// concurrent use.
func (b *Batcher) OnResult(fn func(DownloadResult)) {
	b.onResult = fn
}

// OnBatch registers fn to receive a summary after each batch completes
func (b *Batcher) OnBatch(fn func(BatchSummary)) {
	b.onBatch = fn
}

// Add queues task. When the pending set reaches capacity the whole batch is
// run and its results returned; otherwise Add returns nil immediately.
func (b *Batcher) Add(ctx context.Context, task DownloadTask) []DownloadResult {
	b.pending = append(b.pending, task)
	if len(b.pending) < b.capacity {
		return nil
	}
	return b.Flush(ctx)
}

// Flush runs whatever is pending as one batch, however small
func (b *Batcher) Flush(ctx context.Context) []DownloadResult {
	if len(b.pending) == 0 {
		return nil
	}

	tasks := make([]DownloadTask, len(b.pending))
	copy(tasks, b.pending)
	b.pending = b.pending[:0]

	return b.runBatch(ctx, tasks)
}

// Discard drops pending tasks without running them and returns how many were dropped
func (b *Batcher) Discard() int {
	n := len(b.pending)
	b.pending = b.pending[:0]
	return n
}

// Pending returns the number of queued tasks not yet run
func (b *Batcher) Pending() int {
	return len(b.pending)
}

// BatchSizes returns the size of every batch run so far, in execution order
func (b *Batcher) BatchSizes() []int {
	sizes := make([]int, len(b.batchSizes))
	copy(sizes, b.batchSizes)
	return sizes
}

// runBatch starts every task concurrently and waits for all of them
func (b *Batcher) runBatch(ctx context.Context, tasks []DownloadTask) []DownloadResult {
	start := time.Now()
	number := len(b.batchSizes) + 1
	b.batchSizes = append(b.batchSizes, len(tasks))

	if b.onStart != nil {
		b.onStart(number, tasks)
	}

	results := make([]DownloadResult, len(tasks))

	var g errgroup.Group
	g.SetLimit(b.capacity)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			results[i] = b.download(ctx, task)
			if b.onResult != nil {
				b.onResult(results[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := BatchSummary{
		Number:   number,
		Size:     len(tasks),
		Duration: time.Since(start),
	}
	for _, r := range results {
		if !r.Success {
			summary.Failed++
		}
	}

	logger.LogBatch(b.logger, summary.Number, summary.Size, summary.Failed, summary.Duration)
	if b.onBatch != nil {
		b.onBatch(summary)
	}

	return results
}

// download fetches one image and streams it to disk. The destination is
// only created once the response status has been accepted.
func (b *Batcher) download(ctx context.Context, task DownloadTask) DownloadResult {
	start := time.Now()
	result := DownloadResult{Task: task}

	body, err := b.client.OpenImage(ctx, task.URL)
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
	} else {
		result.Size, err = b.store.Save(body, task.FileName)
		body.Close()
		if err != nil {
			result.Error = fmt.Errorf("save failed: %w", err)
		} else {
			result.Success = true
		}
	}

	result.Duration = time.Since(start)
	logger.LogDownload(b.logger, task.URL, task.FileName, result.Size, result.Duration, result.Error)

	return result
}
