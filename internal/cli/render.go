package cli

import (
	"github.com/spf13/cobra"

	"github.com/scratchtools/scratch-explorer/internal/explorer"
)

var (
	renderAutoStart      bool
	renderDeleteExisting bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Manage the render queue",
}

var renderAddCmd = &cobra.Command{
	Use:   "add <output-id>",
	Short: "Add an output node to the render queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		e := explorer.New(newClient(cfg, logger), logger)

		_, err = e.AddOutputToQueue(cmd.Context(), args[0], renderAutoStart)
		return err
	},
}

var renderStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start processing the render queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		e := explorer.New(newClient(cfg, logger), logger)

		return e.StartRender(cmd.Context(), renderDeleteExisting)
	},
}

func init() {
	renderAddCmd.Flags().BoolVar(&renderAutoStart, "start", false, "Start the render immediately")
	renderStartCmd.Flags().BoolVar(&renderDeleteExisting, "delete-existing", false, "Delete existing media of queued items first")
	renderCmd.AddCommand(renderAddCmd)
	renderCmd.AddCommand(renderStartCmd)
	rootCmd.AddCommand(renderCmd)
}
