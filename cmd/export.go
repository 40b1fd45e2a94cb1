package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/cobenefits-atlas/internal/config"
	"github.com/sells-group/cobenefits-atlas/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the regional breakdown as CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("load"); err != nil {
			return err
		}

		w, closeOut, err := openOutput(exportOutput, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := runExport(cmd.Context(), cfg, w, exportFormat); err != nil {
			_ = closeOut()
			return err
		}
		return closeOut()
	},
}

func runExport(ctx context.Context, c *config.Config, w io.Writer, format string) error {
	ds, _, err := loadDataset(ctx, c)
	if err != nil {
		return err
	}

	switch format {
	case "csv", "":
		return export.CSV(w, ds.Regions)
	case "xlsx":
		return export.XLSX(w, ds.Regions)
	default:
		return eris.Errorf("export: unknown format %q", format)
	}
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
