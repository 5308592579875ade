package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"galleryscraper/pkg/config"
	"galleryscraper/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage galleryscraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (GALLERYSCRAPER_*, also read from .env)
  - Configuration file
  - Default values (lowest priority)`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is written to .galleryscraper.yaml in the current directory unless
a different path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from every source and check it.

Besides the value checks done before every run, this verifies that the
output and log directories can be created.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

const exampleConfigTemplate = `# galleryscraper configuration
#
# Every option can also be set with an environment variable prefixed with
# GALLERYSCRAPER_, for example GALLERYSCRAPER_GROUP_ID or
# GALLERYSCRAPER_BATCH_SIZE. A .env file in the working directory is read too.

gallery:
  # Listing endpoint; groupId and page are appended as query parameters
  base_url: %q
  group_id: %q
  # Pages start_page .. start_page+total_pages-1 are fetched
  start_page: 1
  total_pages: %d
  user_agent: "galleryscraper/1.0"
  # Per-request timeout, 0 waits forever
  request_timeout: 0s

output:
  # Created if missing. A file with the same name means "already downloaded".
  directory: %q

download:
  # Downloads per batch; a batch finishes completely before the next starts
  batch_size: %d
  # Run the pending batch at the end of every page instead of carrying it over
  flush_per_page: false

logging:
  # debug, info, warn, error
  level: "info"
  # Optional JSON log file
  file: ""
`

func exampleConfig() string {
	return fmt.Sprintf(exampleConfigTemplate,
		config.DefaultBaseURL, config.DefaultGroupID, config.DefaultTotalPages,
		config.DefaultOutputDir, config.DefaultBatchSize)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".galleryscraper.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig()), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintln(cmd.OutOrStdout(), "1. Edit the gallery section for the gallery you want")
	fmt.Fprintln(cmd.OutOrStdout(), "2. Run 'galleryscraper config validate' to check it")
	fmt.Fprintln(cmd.OutOrStdout(), "3. Start downloading with 'galleryscraper scrape'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(out)
	fmt.Fprint(out, string(data))

	fmt.Fprintln(out, "\nConfiguration sources (in order of priority):")
	fmt.Fprintln(out, "1. Command line flags")
	fmt.Fprintln(out, "2. Environment variables (GALLERYSCRAPER_*)")
	if configFile != "" {
		fmt.Fprintf(out, "3. Configuration file: %s\n", configFile)
	} else {
		fmt.Fprintln(out, "3. Configuration file: (searched in default locations)")
	}
	fmt.Fprintln(out, "4. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	var problems []string
	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("cannot create output directory: %v", err))
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}
	if cfg.Gallery.RequestTimeout == 0 {
		ui.PrintWarning("No request timeout set", "a hanging request blocks its batch")
	}

	if len(problems) > 0 {
		for _, p := range problems {
			ui.PrintError("  - " + p)
		}
		return fmt.Errorf("configuration has %d problem(s)", len(problems))
	}

	ui.PrintSuccess("Configuration is valid")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nConfiguration summary:")
	fmt.Fprintf(out, "  Gallery: %s (group %s)\n", cfg.Gallery.BaseURL, cfg.Gallery.GroupID)
	fmt.Fprintf(out, "  Pages: %d-%d\n", cfg.Gallery.StartPage, cfg.LastPage())
	fmt.Fprintf(out, "  Output directory: %s\n", cfg.Output.Directory)
	fmt.Fprintf(out, "  Batch size: %d (flush per page: %t)\n", cfg.Download.BatchSize, cfg.Download.FlushPerPage)
	fmt.Fprintf(out, "  Log level: %s\n", cfg.Logging.Level)
	return nil
}
