// Package cli wires the scratch-explorer command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/scratchtools/scratch-explorer/internal/config"
	"github.com/scratchtools/scratch-explorer/internal/logging"
	"github.com/scratchtools/scratch-explorer/internal/scratch"
)

var (
	flagHost       string
	flagToken      string
	flagConfigPath string
	flagVerbose    bool
	flagJSONLog    bool
)

var rootCmd = &cobra.Command{
	Use:   "scratch-explorer",
	Short: "Browse and drive a SCRATCH session over its REST API",
	Long: `scratch-explorer drives an Assimilate SCRATCH installation through its
REST API: open projects, walk the group/timeline hierarchy, snapshot shots,
manage the render queue and hand the session to the player for review.

Quick Start:
  scratch-explorer browse "My Project"      # Browse a project end-to-end
  scratch-explorer projects                 # List available projects
  scratch-explorer queue                    # Show the render queue
  scratch-explorer sim                      # Run a local API simulator`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", config.Version, config.GitCommit, config.BuildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits 1 on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "SCRATCH API base URL (default "+scratch.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Bearer token for the API")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLog, "json-log", false, "Emit logs as JSON")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig resolves configuration, with command-line flags taking
// precedence over environment and config file.
func loadConfig() (config.Config, error) {
	cfg, err := config.New(flagConfigPath)
	if err != nil {
		return nil, err
	}
	return &flagConfig{Config: cfg}, nil
}

type flagConfig struct {
	config.Config
}

func (c *flagConfig) Host() string {
	if flagHost != "" {
		return flagHost
	}
	return c.Config.Host()
}

func (c *flagConfig) Token() string {
	if flagToken != "" {
		return flagToken
	}
	return c.Config.Token()
}

func (c *flagConfig) LogLevel() string {
	if flagVerbose {
		return "debug"
	}
	return c.Config.LogLevel()
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.NewLogger(os.Stderr, cfg.LogLevel(), flagJSONLog)
}

func newClient(cfg config.Config, logger *slog.Logger) *scratch.HTTPClient {
	return scratch.NewHTTPClient(cfg.Host(), cfg.Token(), logging.WithComponent(logger, "scratch"))
}
