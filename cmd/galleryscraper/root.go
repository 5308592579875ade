package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"galleryscraper/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "galleryscraper",
	Short: "Download every photo of a paginated event gallery",
	Long: `galleryscraper walks the pages of a photo gallery listing and downloads
every image into a local folder.

Files already present in the folder are skipped, so an interrupted run can
simply be started again. Downloads run in fixed-size batches; each batch
finishes completely before the next one starts.

Running galleryscraper without a subcommand is the same as 'galleryscraper scrape'.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("log-level") {
			switch {
			case quiet:
				logLevel = "error"
			case verbose:
				logLevel = "debug"
			}
		}
		if quiet {
			ui.SetQuietMode(true)
		}

		if cmd.Name() != "version" && cmd.Name() != "help" && !useTUI {
			ui.PrintLogo()
		}
	},
	Args: cobra.NoArgs,
	RunE: runScrape,
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .galleryscraper.yaml or $HOME/.config/galleryscraper/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug logs")

	rootCmd.SetVersionTemplate(`galleryscraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
