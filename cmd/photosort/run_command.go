package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"photosort/internal/daemon"
	"photosort/internal/logging"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Watch the photo folder and organize sessions until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "photosort.log")},
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			d, err := daemon.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			if err := d.Start(signalCtx); err != nil {
				return fmt.Errorf("start daemon: %w", err)
			}

			<-signalCtx.Done()
			d.Stop()

			status := d.Status()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sessions completed: %d, failed: %d\n", status.SessionsDone, status.SessionsFail)
			if status.Halted {
				fmt.Fprintln(out, "Processing was halted after a failed session; inspect the error records before restarting.")
			}
			return nil
		},
	}
}
