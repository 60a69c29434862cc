package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scratchtools/scratch-explorer/internal/explorer"
)

var (
	snapshotFrame int
	snapshotOut   string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <shot-uuid>",
	Short: "Render a proxy-quality still of a shot to disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		e := explorer.New(newClient(cfg, logger), logger)

		path, err := e.GenerateThumbnail(cmd.Context(), args[0], snapshotFrame, snapshotOut)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Saved:"), path)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().IntVar(&snapshotFrame, "frame", 0, "Frame to snapshot")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "Output path (default: generated temp path)")
	rootCmd.AddCommand(snapshotCmd)
}
