package cli

import (
	"github.com/spf13/cobra"

	"github.com/scratchtools/scratch-explorer/internal/explorer"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the render queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		e := explorer.New(newClient(cfg, logger), logger)

		e.RenderQueue(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queueCmd)
}
