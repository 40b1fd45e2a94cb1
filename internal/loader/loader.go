// Package loader fetches the three dashboard datasets concurrently and
// exposes a single load state.
package loader

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/cobenefits-atlas/internal/config"
	"github.com/sells-group/cobenefits-atlas/internal/fetcher"
	"github.com/sells-group/cobenefits-atlas/internal/model"
)

// State is the load lifecycle of one mount.
type State int

const (
	StateNotStarted State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrClosed is returned by Load after Close.
var ErrClosed = eris.New("loader: closed")

// Resources names the three data files as fetcher URLs.
type Resources struct {
	Summary  string
	Regional string
	Timeline string
}

// ResourcesFrom builds Resources from data configuration.
func ResourcesFrom(cfg config.DataConfig) Resources {
	return Resources{
		Summary:  fetcher.ResourceURL(cfg, cfg.SummaryFile),
		Regional: fetcher.ResourceURL(cfg, cfg.RegionalFile),
		Timeline: fetcher.ResourceURL(cfg, cfg.TimelineFile),
	}
}

// Loader performs exactly one load per instance. Create one per mount.
type Loader struct {
	fetcher fetcher.Fetcher
	res     Resources
	session string

	// notifyMu serialises Start callbacks with Close.
	notifyMu sync.Mutex

	mu      sync.Mutex
	state   State
	data    *model.Dataset
	err     error
	closed  bool
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a Loader for the given resources.
func New(f fetcher.Fetcher, res Resources) *Loader {
	return &Loader{
		fetcher: f,
		res:     res,
		session: uuid.NewString(),
		done:    make(chan struct{}),
	}
}

// Session returns the id used to tag this load in logs.
func (l *Loader) Session() string {
	return l.session
}

// State returns the current load state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load fetches all three datasets in parallel and returns them once every
// fetch has succeeded. The first failure cancels the remaining fetches and
// moves the loader to StateFailed; no partial dataset is ever returned.
// Calling Load again returns the result of the first call.
func (l *Loader) Load(ctx context.Context) (*model.Dataset, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, ErrClosed
	}
	if l.started {
		l.mu.Unlock()
		select {
		case <-l.done:
		case <-ctx.Done():
			return nil, eris.Wrap(ctx.Err(), "loader: wait")
		}
		return l.result()
	}
	l.started = true
	l.state = StateLoading
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	start := time.Now()
	data, err := l.fetchAll(ctx)
	cancel()

	l.mu.Lock()
	defer l.mu.Unlock()
	defer close(l.done)

	// Torn down while in flight: drop the result.
	if l.closed {
		zap.L().Debug("dropping load result after close", zap.String("session", l.session))
		return nil, ErrClosed
	}

	if err != nil {
		l.state = StateFailed
		l.err = err
		zap.L().Error("dataset load failed",
			zap.String("session", l.session),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	l.state = StateReady
	l.data = data
	zap.L().Info("dataset loaded",
		zap.String("session", l.session),
		zap.Int("co_benefits", len(data.Summary.CoBenefits)),
		zap.Int("regions", len(data.Regions)),
		zap.Int("frames", len(data.Timeline)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}

// Start runs Load on its own goroutine for event-loop hosts and reports the
// result to done. Once Close has returned done is never called; a Close
// issued while done is running waits for it. done must not call Close.
func (l *Loader) Start(ctx context.Context, done func(*model.Dataset, error)) {
	go func() {
		data, err := l.Load(ctx)

		l.notifyMu.Lock()
		defer l.notifyMu.Unlock()
		if l.isClosed() || done == nil {
			return
		}
		done(data, err)
	}()
}

func (l *Loader) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Done is closed when the first Load finishes, whatever its outcome.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

func (l *Loader) result() (*model.Dataset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	return l.data, l.err
}

// Close tears the loader down. In-flight fetches are cancelled and their
// results ignored; the state stops changing.
func (l *Loader) Close() {
	l.notifyMu.Lock()
	defer l.notifyMu.Unlock()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	if l.cancel != nil {
		l.cancel()
	}
}

func (l *Loader) fetchAll(ctx context.Context) (*model.Dataset, error) {
	var ds model.Dataset
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		body, err := l.fetcher.Download(gctx, l.res.Summary)
		if err != nil {
			return eris.Wrap(err, "loader: fetch summary")
		}
		defer body.Close() //nolint:errcheck

		s, err := fetcher.DecodeJSONObject[model.SummaryRecord](body)
		if err != nil {
			return eris.Wrap(err, "loader: parse summary")
		}
		ds.Summary = *s
		return nil
	})

	g.Go(func() error {
		regions, err := fetchArray[model.RegionRecord](gctx, l.fetcher, l.res.Regional)
		if err != nil {
			return eris.Wrap(err, "loader: regional")
		}
		ds.Regions = regions
		return nil
	})

	g.Go(func() error {
		frames, err := fetchArray[model.TimelineFrame](gctx, l.fetcher, l.res.Timeline)
		if err != nil {
			return eris.Wrap(err, "loader: timeline")
		}
		ds.Timeline = frames
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func fetchArray[T any](ctx context.Context, f fetcher.Fetcher, url string) ([]T, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "fetch")
	}
	defer body.Close() //nolint:errcheck

	items, err := fetcher.CollectJSONArray[T](ctx, body)
	if err != nil {
		return nil, eris.Wrap(err, "parse")
	}
	return items, nil
}
