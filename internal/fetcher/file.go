package fetcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// FileFetcher implements Fetcher over a local directory. URLs are file
// names (optionally prefixed with file:// or /data/) relative to Root.
type FileFetcher struct {
	Root string
}

// NewFileFetcher creates a FileFetcher rooted at dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{Root: dir}
}

// Download opens the named file under Root.
func (f *FileFetcher) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "file: context")
	}

	path, err := f.resolve(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "file: open %s", name)
	}
	return file, nil
}

func (f *FileFetcher) resolve(name string) (string, error) {
	name = strings.TrimPrefix(name, "file://")
	name = strings.TrimPrefix(name, "/data/")
	name = strings.TrimLeft(name, "/")

	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", eris.Errorf("file: path %q escapes data directory", name)
	}
	return filepath.Join(f.Root, clean), nil
}
