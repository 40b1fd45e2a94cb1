package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cobenefits-atlas/internal/config"
	"github.com/sells-group/cobenefits-atlas/internal/fetcher"
	"github.com/sells-group/cobenefits-atlas/internal/loader"
	"github.com/sells-group/cobenefits-atlas/internal/model"
)

// loadDataset runs a single load with a fresh loader.
func loadDataset(ctx context.Context, c *config.Config) (*model.Dataset, string, error) {
	l := loader.New(fetcher.New(c.Data, c.Fetch), loader.ResourcesFrom(c.Data))
	defer l.Close()

	ds, err := l.Load(ctx)
	if err != nil {
		return nil, l.Session(), eris.Wrap(err, "load dataset")
	}
	return ds, l.Session(), nil
}

// openOutput returns path opened for writing, or fallback when path is
// empty. The returned close func is always safe to call.
func openOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create %s", path)
	}
	return f, f.Close, nil
}
