package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"galleryscraper/pkg/config"
	"galleryscraper/pkg/logger"
	"galleryscraper/pkg/scraper"
	"galleryscraper/pkg/ui"
	"galleryscraper/pkg/ui/tui"
)

var (
	// Scrape command flags
	baseURL        string
	groupID        string
	totalPages     int
	startPage      int
	outputDir      string
	batchSize      int
	flushPerPage   bool
	requestTimeout string
	useTUI         bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Download all photos from the configured gallery",
	Long: `Download every photo listed on the configured gallery pages.

Each page is requested with the configured group id. Photos whose file name
already exists in the output folder are skipped without any request. Failed
pages and failed downloads are logged and the run moves on.`,
	Example: `  # Download the default gallery into ./RacePhotos
  galleryscraper scrape

  # Another gallery, first 20 pages only
  galleryscraper scrape --base-url https://example.com/api/galleries/abc/photos \
    --group-id xyz --pages 20

  # Resume at page 120 with batches of 5 and a 30s request timeout
  galleryscraper scrape --start-page 120 --batch-size 5 --request-timeout 30s

  # Interactive progress display
  galleryscraper scrape --tui`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	addScrapeFlags(scrapeCmd.Flags())
	// scraping is also the root command's default action
	addScrapeFlags(rootCmd.Flags())
}

func addScrapeFlags(fs *pflag.FlagSet) {
	fs.StringVar(&baseURL, "base-url", "", "gallery listing endpoint")
	fs.StringVar(&groupID, "group-id", "", "gallery group id sent as groupId")
	fs.IntVar(&totalPages, "pages", config.DefaultTotalPages, "number of pages to fetch")
	fs.IntVar(&startPage, "start-page", 1, "first page to fetch")
	fs.StringVarP(&outputDir, "output", "o", "", "output directory (default ./RacePhotos)")
	fs.IntVar(&batchSize, "batch-size", config.DefaultBatchSize, "number of downloads per batch")
	fs.BoolVar(&flushPerPage, "flush-per-page", false, "run the pending batch at the end of every page")
	fs.StringVar(&requestTimeout, "request-timeout", "", "per-request timeout, e.g. 30s (default none)")
	fs.BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
}

// scrapeFlags collects the flags explicitly set on cmd into the map consumed
// by config.Load
func scrapeFlags(cmd *cobra.Command) (map[string]interface{}, error) {
	fs := cmd.Flags()
	flags := make(map[string]interface{})

	if fs.Changed("base-url") {
		flags["base-url"] = baseURL
	}
	if fs.Changed("group-id") {
		flags["group-id"] = groupID
	}
	if fs.Changed("pages") {
		flags["pages"] = totalPages
	}
	if fs.Changed("start-page") {
		flags["start-page"] = startPage
	}
	if fs.Changed("output") {
		flags["output"] = outputDir
	}
	if fs.Changed("batch-size") {
		flags["batch-size"] = batchSize
	}
	if fs.Changed("flush-per-page") {
		flags["flush-per-page"] = flushPerPage
	}
	if fs.Changed("request-timeout") {
		d, err := parseTimeout(requestTimeout)
		if err != nil {
			return nil, err
		}
		flags["request-timeout"] = d
	}
	if fs.Changed("log-level") || quiet || verbose {
		flags["log-level"] = logLevel
	}

	return flags, nil
}

// parseTimeout accepts a Go duration or a bare number of seconds
func parseTimeout(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("request timeout cannot be negative: %s", v)
		}
		return d, nil
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("invalid request timeout %q", v)
	}
	return time.Duration(secs) * time.Second, nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	flags, err := scrapeFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if useTUI {
		// the TUI owns the terminal; logs still go to the log file if one is set
		l, err := logger.NewWithWriter(&cfg.Logging, io.Discard)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.SetLogger(l)
	} else if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.WithField("version", version).Debug("galleryscraper starting")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := scraper.New(cfg, logger.GetLogger())
	if err != nil {
		return err
	}

	if useTUI {
		return runWithTUI(ctx, cfg, s)
	}

	ui.PrintInfo("Gallery", cfg.Gallery.BaseURL)
	ui.PrintInfo("Pages", fmt.Sprintf("%d-%d", cfg.Gallery.StartPage, cfg.LastPage()))
	ui.PrintInfo("Output", cfg.Output.Directory)
	ui.PrintHighlight("[STARTING DOWNLOAD]")

	report, err := s.Run(ctx)
	if err != nil {
		return err
	}

	s.Tracker().PrintSummary()
	printOutcome(report)
	return nil
}

// runWithTUI runs the scraper while the TUI owns the terminal. Quitting the
// TUI cancels the run.
func runWithTUI(ctx context.Context, cfg *config.Config, s *scraper.Scraper) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	terminal := tui.NewTUI(cfg.Download.BatchSize)
	s.SetTUI(terminal)

	tuiDone := make(chan error, 1)
	go func() {
		tuiDone <- terminal.Start()
		cancel()
	}()

	report, err := s.Run(runCtx)
	if err == nil {
		terminal.Finish(fmt.Sprintf("%d downloaded, %d skipped, %d failed",
			report.Downloaded, report.Skipped, report.Failed))
	}
	terminal.Stop()

	if tuiErr := <-tuiDone; tuiErr != nil {
		logger.WithError(tuiErr).Error("TUI failed")
	}
	if err != nil {
		return err
	}

	s.Tracker().PrintSummary()
	printOutcome(report)
	return nil
}

func printOutcome(report *scraper.Report) {
	if report.Cancelled {
		ui.PrintWarning("[DOWNLOAD INTERRUPTED]", fmt.Sprintf("%d queued downloads dropped", report.Dropped))
		return
	}
	ui.PrintSuccess("[DOWNLOAD COMPLETE]")
}
