package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scratchtools/scratch-explorer/internal/explorer"
	"github.com/scratchtools/scratch-explorer/internal/export"
)

var shotsExportDir string

var shotsCmd = &cobra.Command{
	Use:   "shots",
	Short: "Work with the shots of the current construct",
}

var shotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all shots of the current construct",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		e := explorer.New(newClient(cfg, logger), logger)

		shots := e.AllShots(cmd.Context())
		if len(shots) == 0 {
			fmt.Println(warningStyle.Render("No shots found"))
		}
		return nil
	},
}

var shotsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current construct's shot list as a CMX 3600 EDL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		e := explorer.New(newClient(cfg, logger), logger)

		construct, err := e.CurrentConstruct(cmd.Context())
		if err != nil {
			return err
		}
		shots := explorer.FlattenShots(construct)
		if len(shots) == 0 {
			return fmt.Errorf("construct %q has no shots to export", construct.Name)
		}

		clips := make([]export.Clip, 0, len(shots))
		for _, shot := range shots {
			clips = append(clips, export.Clip{
				Name:      shot.Name,
				MediaPath: shot.File,
				SourceTC:  shot.Timecode,
				Length:    shot.Length,
			})
		}

		if err := export.EnsureOutputDir(shotsExportDir); err != nil {
			return err
		}
		edl := export.GenerateEDL(clips, construct.Name, construct.FPS)
		outPath := filepath.Join(shotsExportDir, export.SanitizeName(construct.Name, 60)+".edl")
		if err := os.WriteFile(outPath, []byte(edl), 0644); err != nil {
			return fmt.Errorf("write EDL: %w", err)
		}

		fmt.Println(successStyle.Render("Exported:"), outPath)
		return nil
	},
}

func init() {
	shotsExportCmd.Flags().StringVarP(&shotsExportDir, "dir", "d", ".", "Directory to write the EDL into")
	shotsCmd.AddCommand(shotsListCmd)
	shotsCmd.AddCommand(shotsExportCmd)
	rootCmd.AddCommand(shotsCmd)
}
