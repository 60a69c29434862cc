package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/scratchtools/scratch-explorer/internal/config"
	"github.com/scratchtools/scratch-explorer/internal/explorer"
	"github.com/scratchtools/scratch-explorer/internal/history"
	"github.com/scratchtools/scratch-explorer/internal/logging"
)

var (
	browseGroup     string
	browseThumbDir  string
	browseNoHistory bool
)

var browseCmd = &cobra.Command{
	Use:   "browse <project>",
	Short: "Browse a project end-to-end: groups, shots, thumbnails, queue, player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		client := newClient(cfg, logger)

		opts := []explorer.Option{}
		if browseThumbDir != "" {
			opts = append(opts, explorer.WithThumbnailDir(browseThumbDir))
		}
		e := explorer.New(client, logger, opts...)

		fmt.Println(sectionStyle.Render("SCRATCH PROJECT BROWSER"))
		fmt.Println()

		started := time.Now()
		report := e.BrowseProject(cmd.Context(), args[0], browseGroup)

		if !browseNoHistory {
			recordRun(cmd.Context(), cfg, logger, report, started)
		}

		if !report.Success {
			printDebugInfo(cmd.Context(), e)
			return fmt.Errorf("browse of %q failed: %v", args[0], report.Err)
		}
		fmt.Println(successStyle.Render("Browse completed"))
		return nil
	},
}

// recordRun persists the outcome in the local history database. History is
// an optional convenience, so storage failures degrade to a warning.
func recordRun(ctx context.Context, cfg config.Config, logger *slog.Logger, report *explorer.Report, started time.Time) {
	db, err := history.Open(cfg.HistoryDBPath(), logging.WithComponent(logger, "history"))
	if err != nil {
		logger.Warn("history database unavailable", "error", err)
		return
	}
	defer db.Close()

	repo := history.NewRepository(db.Conn())

	run := &history.Run{
		ID:             history.NewID(),
		Project:        report.Project,
		GroupName:      report.Group,
		Construct:      report.Construct,
		ShotCount:      report.ShotCount,
		ThumbnailCount: report.ThumbnailCount(),
		Status:         history.RunStatusCompleted,
		StartedAt:      started.UTC(),
		FinishedAt:     time.Now().UTC(),
	}
	if !report.Success {
		run.Status = history.RunStatusFailed
		if report.Err != nil {
			run.Error = report.Err.Error()
		}
	}

	if err := repo.RecordRun(ctx, run); err != nil {
		logger.Warn("failed to record run", "error", err)
		return
	}
	for _, path := range report.Thumbnails {
		thumb := &history.Thumbnail{
			ID:        history.NewID(),
			RunID:     run.ID,
			Path:      path,
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.AddThumbnail(ctx, thumb); err != nil {
			logger.Warn("failed to record thumbnail", "path", path, "error", err)
		}
	}
}

// printDebugInfo mirrors the troubleshooting block shown after a failed
// browse: can we reach the server at all, and which projects exist?
func printDebugInfo(ctx context.Context, e *explorer.Explorer) {
	fmt.Println()
	fmt.Println(infoStyle.Render("--- Debug info ---"))
	if _, err := e.SystemInfo(ctx); err != nil {
		fmt.Println(warningStyle.Render("Server unreachable:"), err)
		return
	}
	projects := e.ListProjects(ctx)
	if len(projects) > 0 {
		names := make([]string, 0, len(projects))
		for _, p := range projects {
			names = append(names, p.Name)
		}
		fmt.Printf("Available projects: %v\n", names)
	}
}

func init() {
	browseCmd.Flags().StringVarP(&browseGroup, "group", "g", "", "Group to select by exact name (default: last group)")
	browseCmd.Flags().StringVar(&browseThumbDir, "thumb-dir", "", "Directory for thumbnails (default: OS temp dir)")
	browseCmd.Flags().BoolVar(&browseNoHistory, "no-history", false, "Skip recording the run in the history database")
	rootCmd.AddCommand(browseCmd)
}
