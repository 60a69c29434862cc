package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scratchtools/scratch-explorer/internal/logging"
	"github.com/scratchtools/scratch-explorer/internal/scratchsim"
)

var simPort int

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a local SCRATCH API simulator with seeded demo projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := logging.WithComponent(newLogger(cfg), "sim")

		server := scratchsim.NewServer(scratchsim.ServerConfig{
			Port:   simPort,
			Logger: logger,
		})

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		fmt.Println(sectionStyle.Render("SCRATCH API Simulator"))
		fmt.Println(infoStyle.Render("Listening on:"), "http://"+server.Addr())
		fmt.Println(infoStyle.Render("Try:"), fmt.Sprintf(`scratch-explorer --host http://%s/APIV2 browse "Demo Project"`, server.Addr()))

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	simCmd.Flags().IntVarP(&simPort, "port", "p", 8080, "Port to listen on")
	rootCmd.AddCommand(simCmd)
}
