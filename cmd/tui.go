package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/cobenefits-atlas/internal/fetcher"
	"github.com/sells-group/cobenefits-atlas/internal/loader"
	"github.com/sells-group/cobenefits-atlas/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the dashboard in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("tui"); err != nil {
			return err
		}

		f := fetcher.New(cfg.Data, cfg.Fetch)
		return tui.Run(ctx, f, loader.ResourcesFrom(cfg.Data), cfg.TUI.ViewportHeight)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
