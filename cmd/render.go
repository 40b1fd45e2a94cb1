package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/cobenefits-atlas/internal/config"
	"github.com/sells-group/cobenefits-atlas/internal/dashboard"
	"github.com/sells-group/cobenefits-atlas/internal/fetcher"
	"github.com/sells-group/cobenefits-atlas/internal/loader"
	"github.com/sells-group/cobenefits-atlas/internal/view"
)

type renderOptions struct {
	Region string
	Format string
	Width  int
	Output string
}

var renderOpts renderOptions

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the dashboard once as HTML, text, or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("load"); err != nil {
			return err
		}

		w, closeOut, err := openOutput(renderOpts.Output, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := runRender(cmd.Context(), cfg, w, renderOpts); err != nil {
			_ = closeOut()
			return err
		}
		return closeOut()
	},
}

// runRender mounts the dashboard once and writes the view. A failed load
// still writes the error view and returns the load error.
func runRender(ctx context.Context, c *config.Config, w io.Writer, opts renderOptions) error {
	f := fetcher.New(c.Data, c.Fetch)
	v, loadErr := dashboard.Mount(ctx, f, loader.ResourcesFrom(c.Data), opts.Region)

	var err error
	switch opts.Format {
	case "html", "":
		err = view.HTML(w, v)
	case "text":
		_, err = io.WriteString(w, view.Text(v, view.TextOptions{Width: opts.Width, Cursor: -1}))
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	default:
		return eris.Errorf("render: unknown format %q", opts.Format)
	}
	if err != nil {
		return eris.Wrap(err, "render: write")
	}
	return loadErr
}

func init() {
	renderCmd.Flags().StringVar(&renderOpts.Region, "region", "", "region to select before rendering")
	renderCmd.Flags().StringVar(&renderOpts.Format, "format", "html", "output format: html, text, or json")
	renderCmd.Flags().IntVar(&renderOpts.Width, "width", 100, "terminal width for text output")
	renderCmd.Flags().StringVarP(&renderOpts.Output, "output", "o", "", "write to file (default: stdout)")
	rootCmd.AddCommand(renderCmd)
}
