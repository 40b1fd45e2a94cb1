package fetcher

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/sells-group/cobenefits-atlas/internal/config"
)

// Fetcher defines the interface for retrieving a dashboard data file.
type Fetcher interface {
	// Download fetches the resource and returns its body. Callers close it.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// New returns an HTTP fetcher when cfg.BaseURL is set and a file fetcher
// rooted at cfg.Dir otherwise.
func New(data config.DataConfig, fetch config.FetchConfig) Fetcher {
	if data.BaseURL != "" {
		return NewHTTPFetcher(HTTPOptions{
			UserAgent:        fetch.UserAgent,
			Timeout:          time.Duration(fetch.TimeoutSecs) * time.Second,
			MaxAttempts:      fetch.MaxAttempts,
			RatePerSec:       fetch.RatePerSec,
			BreakerThreshold: fetch.BreakerThreshold,
			BreakerCooldown:  time.Duration(fetch.BreakerCooldownSecs) * time.Second,
		})
	}
	return NewFileFetcher(data.Dir)
}

// ResourceURL joins the configured base with a data file name. Without a
// base URL the bare file name is returned for the file fetcher.
func ResourceURL(data config.DataConfig, file string) string {
	if data.BaseURL == "" {
		return file
	}
	return strings.TrimRight(data.BaseURL, "/") + "/" + strings.TrimLeft(file, "/")
}
