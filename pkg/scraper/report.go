package scraper

import "time"

// Report summarizes one run
type Report struct {
	RunID        string
	StartPage    int
	LastPage     int
	PagesFetched int
	PagesFailed  int
	PhotosSeen   int
	Skipped      int
	Queued       int
	Downloaded   int
	Failed       int
	BatchSizes   []int
	Bytes        int64
	Elapsed      time.Duration
	Cancelled    bool
	// Dropped counts queued tasks never run because the run was cancelled
	Dropped int
}

// Fields returns the report as structured log fields
func (r *Report) Fields() map[string]interface{} {
	return map[string]interface{}{
		"run_id":        r.RunID,
		"pages_fetched": r.PagesFetched,
		"pages_failed":  r.PagesFailed,
		"photos_seen":   r.PhotosSeen,
		"skipped":       r.Skipped,
		"queued":        r.Queued,
		"downloaded":    r.Downloaded,
		"failed":        r.Failed,
		"batches":       len(r.BatchSizes),
		"bytes":         r.Bytes,
		"elapsed":       r.Elapsed,
		"cancelled":     r.Cancelled,
	}
}
