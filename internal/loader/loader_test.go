package loader

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sells-group/cobenefits-atlas/internal/config"
	"github.com/sells-group/cobenefits-atlas/internal/fetcher"
	"github.com/sells-group/cobenefits-atlas/internal/model"
)

var testResources = Resources{
	Summary:  "summary_data.json",
	Regional: "regional_detailed.json",
	Timeline: "animated_timeline.json",
}

// fakeFetcher serves canned bodies with optional per-URL delays and errors.
type fakeFetcher struct {
	bodies map[string]string
	delays map[string]time.Duration
	errs   map[string]error
	calls  atomic.Int32
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		bodies: map[string]string{
			testResources.Summary:  `{"total_benefits":{"value":150000},"total_areas":3,"air_quality":{"total":50000,"percentage":33},"co_benefits":[]}`,
			testResources.Regional: `[{"region":"London","total_air_quality":100,"area_count":2,"avg_per_area":50,"top_areas":[]}]`,
			testResources.Timeline: `[{"year":2025,"benefits":[{"name":"Air Quality","value":1}]}]`,
		},
		delays: map[string]time.Duration{},
		errs:   map[string]error{},
	}
}

func (f *fakeFetcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	f.calls.Add(1)
	if d := f.delays[url]; d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestLoad_Success(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := New(newFakeFetcher(), testResources)
	assert.Equal(t, StateNotStarted, l.State())

	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ds)

	assert.Equal(t, StateReady, l.State())
	assert.InDelta(t, 150000, ds.Summary.TotalBenefits.Value, 1e-9)
	require.Len(t, ds.Regions, 1)
	assert.Equal(t, "London", ds.Regions[0].Region)
	require.Len(t, ds.Timeline, 1)
	assert.Equal(t, 2025, ds.Timeline[0].Year)
}

func TestLoad_FromFiles(t *testing.T) {
	l := New(fetcher.NewFileFetcher("testdata"), ResourcesFrom(config.DataConfig{
		SummaryFile:  "summary_data.json",
		RegionalFile: "regional_detailed.json",
		TimelineFile: "animated_timeline.json",
	}))

	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 46426, ds.Summary.TotalAreas)
	assert.Len(t, ds.Regions, 4)
	assert.Len(t, ds.Timeline, 4)
}

func TestLoad_FanOutLatency(t *testing.T) {
	f := newFakeFetcher()
	for _, u := range []string{testResources.Summary, testResources.Regional, testResources.Timeline} {
		f.delays[u] = 100 * time.Millisecond
	}

	l := New(f, testResources)
	start := time.Now()
	_, err := l.Load(context.Background())
	require.NoError(t, err)

	// Concurrent fetches: total is close to the slowest, not the sum.
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestLoad_FailFast(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFakeFetcher()
	f.errs[testResources.Summary] = errors.New("connection refused")
	f.delays[testResources.Timeline] = 5 * time.Second

	l := New(f, testResources)
	start := time.Now()
	ds, err := l.Load(context.Background())

	require.Error(t, err)
	assert.Nil(t, ds)
	assert.Contains(t, err.Error(), "fetch summary")
	assert.Equal(t, StateFailed, l.State())
	assert.Less(t, time.Since(start), time.Second)
}

func TestLoad_ParseFailure(t *testing.T) {
	f := newFakeFetcher()
	f.bodies[testResources.Regional] = `{"region":"not an array"}`

	l := New(f, testResources)
	ds, err := l.Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.Contains(t, err.Error(), "loader: regional")
	assert.Equal(t, StateFailed, l.State())
}

func TestLoad_OnlyOnce(t *testing.T) {
	f := newFakeFetcher()
	l := New(f, testResources)

	first, err := l.Load(context.Background())
	require.NoError(t, err)
	second, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(3), f.calls.Load())
}

func TestClose_DropsLateResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFakeFetcher()
	f.delays[testResources.Regional] = 5 * time.Second

	l := New(f, testResources)

	type result struct {
		err error
	}
	resCh := make(chan result, 1)
	go func() {
		_, err := l.Load(context.Background())
		resCh <- result{err: err}
	}()

	require.Eventually(t, func() bool { return l.State() == StateLoading }, time.Second, time.Millisecond)
	l.Close()

	select {
	case res := <-resCh:
		assert.ErrorIs(t, res.err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("load did not return after close")
	}

	// State no longer advances after teardown.
	assert.Equal(t, StateLoading, l.State())
}

func TestStart_ReportsResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := New(newFakeFetcher(), testResources)
	got := make(chan error, 1)
	l.Start(context.Background(), func(ds *model.Dataset, err error) {
		if err == nil && ds == nil {
			err = errors.New("nil dataset")
		}
		got <- err
	})

	select {
	case err := <-got:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("done not called")
	}
	assert.Equal(t, StateReady, l.State())
}

func TestStart_CloseSuppressesCallback(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFakeFetcher()
	f.delays[testResources.Timeline] = 5 * time.Second

	l := New(f, testResources)
	var called atomic.Bool
	l.Start(context.Background(), func(*model.Dataset, error) { called.Store(true) })

	require.Eventually(t, func() bool { return l.State() == StateLoading }, time.Second, time.Millisecond)
	l.Close()

	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("load did not finish after close")
	}
	// Let the Start goroutine observe the close and exit.
	time.Sleep(20 * time.Millisecond)
	assert.False(t, called.Load())
}

func TestStart_NoCallbackAfterCloseReturns(t *testing.T) {
	var late atomic.Int32
	for i := 0; i < 500; i++ {
		l := New(newFakeFetcher(), testResources)
		var closeReturned atomic.Bool
		l.Start(context.Background(), func(*model.Dataset, error) {
			if closeReturned.Load() {
				late.Add(1)
			}
		})

		select {
		case <-l.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("load did not finish")
		}
		// Close lands between the load finishing and the callback.
		l.Close()
		closeReturned.Store(true)
	}
	goleak.VerifyNone(t)
	assert.Zero(t, late.Load(), "callbacks delivered after Close returned")
}

func TestLoad_AfterClose(t *testing.T) {
	l := New(newFakeFetcher(), testResources)
	l.Close()
	l.Close()

	_, err := l.Load(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, StateNotStarted, l.State())
}

func TestSessionIDs(t *testing.T) {
	a := New(newFakeFetcher(), testResources)
	b := New(newFakeFetcher(), testResources)
	assert.NotEmpty(t, a.Session())
	assert.NotEqual(t, a.Session(), b.Session())
}

func TestResourcesFrom_BaseURL(t *testing.T) {
	res := ResourcesFrom(config.DataConfig{
		BaseURL:      "https://atlas.example/data",
		SummaryFile:  "summary_data.json",
		RegionalFile: "regional_detailed.json",
		TimelineFile: "animated_timeline.json",
	})
	assert.Equal(t, "https://atlas.example/data/summary_data.json", res.Summary)
	assert.Equal(t, "https://atlas.example/data/regional_detailed.json", res.Regional)
	assert.Equal(t, "https://atlas.example/data/animated_timeline.json", res.Timeline)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "not_started", StateNotStarted.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
