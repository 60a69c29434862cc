package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scratchtools/scratch-explorer/internal/explorer"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects available on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		e := explorer.New(newClient(cfg, logger), logger)

		if _, err := e.SystemInfo(cmd.Context()); err != nil {
			return err
		}
		projects := e.ListProjects(cmd.Context())
		if len(projects) == 0 {
			fmt.Println(warningStyle.Render("No projects found"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}
