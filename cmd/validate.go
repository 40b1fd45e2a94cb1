package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cobenefits-atlas/internal/config"
	"github.com/sells-group/cobenefits-atlas/internal/validate"
)

var validateFormat string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the data files for consistency",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("load"); err != nil {
			return err
		}
		return runValidate(cmd.Context(), cfg, cmd.OutOrStdout(), validate.Format(validateFormat))
	},
}

func runValidate(ctx context.Context, c *config.Config, w io.Writer, format validate.Format) error {
	ds, session, err := loadDataset(ctx, c)
	if err != nil {
		return err
	}

	report := validate.Check(*ds)
	report.Session = session
	if err := validate.Write(w, report, format); err != nil {
		return err
	}

	if !report.OK() {
		zap.L().Warn("dataset failed validation", zap.Int("errors", report.Errors()))
		return eris.Errorf("validation failed with %d error(s)", report.Errors())
	}
	return nil
}

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "yaml", "report format: yaml or json")
	rootCmd.AddCommand(validateCmd)
}
