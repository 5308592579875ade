// Package scraper runs a gallery download from the first configured page to
// the last.
//
// For each page the listing is fetched and every record is checked against
// the output folder. Photos already on disk are skipped without a request;
// the rest are handed to a downloader.Batcher, which runs them in fixed-size
// batches that never overlap. The pending batch is shared across pages, so
// with a batch size of 10 a run that finds 23 new photos spread over three
// pages executes batches of 10, 10 and 3. Setting download.flush_per_page
// flushes at every page boundary instead.
//
// Nothing that goes wrong with a page or a single image stops the run: the
// error is logged and the run moves on. Run always ends with a
// "Done downloading images" line and returns a Report.
//
//	s, err := scraper.New(cfg, logger.GetLogger())
//	if err != nil {
//	    return err
//	}
//	report, err := s.Run(ctx)
package scraper
