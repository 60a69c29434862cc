package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scratchtools/scratch-explorer/internal/explorer"
	"github.com/scratchtools/scratch-explorer/internal/scratch"
)

var (
	playerConstruct string
	playerMode      string
	playerLoop      bool
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Enter player mode and configure playback",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		e := explorer.New(newClient(cfg, logger), logger)

		mode, err := parsePlaymode(playerMode)
		if err != nil {
			return err
		}
		loop := scratch.LoopOff
		if playerLoop {
			loop = scratch.LoopLoop
		}

		if err := e.EnterPlayer(cmd.Context(), playerConstruct); err != nil {
			return err
		}
		return e.SetPlaybackMode(cmd.Context(), mode, loop)
	},
}

func parsePlaymode(mode string) (string, error) {
	switch strings.ToLower(mode) {
	case "pause":
		return scratch.PlaymodePause, nil
	case "play", "forward":
		return scratch.PlaymodePlayForward, nil
	case "reverse":
		return scratch.PlaymodePlayReverse, nil
	default:
		return "", fmt.Errorf("unknown playback mode %q (pause, play, reverse)", mode)
	}
}

func init() {
	playerCmd.Flags().StringVar(&playerConstruct, "construct", "", "Construct to play (default: current)")
	playerCmd.Flags().StringVar(&playerMode, "mode", "pause", "Playback mode: pause, play, reverse")
	playerCmd.Flags().BoolVar(&playerLoop, "loop", false, "Loop playback")
	rootCmd.AddCommand(playerCmd)
}
