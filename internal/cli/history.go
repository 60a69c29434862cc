package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scratchtools/scratch-explorer/internal/history"
	"github.com/scratchtools/scratch-explorer/internal/logging"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent browse runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		db, err := history.Open(cfg.HistoryDBPath(), logging.WithComponent(logger, "history"))
		if err != nil {
			return fmt.Errorf("open history database: %w", err)
		}
		defer db.Close()

		runs, err := history.NewRepository(db.Conn()).ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println(infoStyle.Render("No runs recorded yet"))
			return nil
		}

		fmt.Println(sectionStyle.Render("Recent browse runs"))
		for _, run := range runs {
			status := successStyle.Render(run.Status)
			if run.Status == history.RunStatusFailed {
				status = errorStyle.Render(run.Status)
			}
			fmt.Printf("%s  %s  %s", run.StartedAt.Local().Format("2006-01-02 15:04:05"), status, run.Project)
			if run.GroupName != "" {
				fmt.Printf(" / %s", run.GroupName)
			}
			fmt.Printf("  (%d shots, %d thumbnails)", run.ShotCount, run.ThumbnailCount)
			if run.Error != "" {
				fmt.Printf("  %s", warningStyle.Render(run.Error))
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to list")
	rootCmd.AddCommand(historyCmd)
}
