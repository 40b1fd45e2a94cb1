package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	now := time.Unix(0, 0)
	b := newBreaker("example.org", 2, time.Minute)
	b.now = func() time.Time { return now }

	require.NoError(t, b.allow())
	b.record(errors.New("boom"))
	assert.Equal(t, breakerClosed, b.current())

	require.NoError(t, b.allow())
	b.record(errors.New("boom"))
	assert.Equal(t, breakerOpen, b.current())
	assert.ErrorIs(t, b.allow(), ErrUpstreamUnavailable)
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	now := time.Unix(0, 0)
	b := newBreaker("example.org", 1, time.Minute)
	b.now = func() time.Time { return now }

	b.record(errors.New("boom"))
	require.Equal(t, breakerOpen, b.current())

	now = now.Add(time.Minute)
	require.NoError(t, b.allow(), "first call after cooldown is a probe")
	assert.Equal(t, breakerHalfOpen, b.current())
	assert.ErrorIs(t, b.allow(), ErrUpstreamUnavailable, "only one probe at a time")

	b.record(errors.New("still down"))
	assert.Equal(t, breakerOpen, b.current())

	now = now.Add(time.Minute)
	require.NoError(t, b.allow())
	b.record(nil)
	assert.Equal(t, breakerClosed, b.current())
	assert.NoError(t, b.allow())
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	b := newBreaker("example.org", 2, time.Minute)

	b.record(errors.New("boom"))
	b.record(nil)
	b.record(errors.New("boom"))
	assert.Equal(t, breakerClosed, b.current())
}

func TestBreaker_ReleaseKeepsState(t *testing.T) {
	now := time.Unix(0, 0)
	b := newBreaker("example.org", 1, time.Minute)
	b.now = func() time.Time { return now }
	b.record(errors.New("boom"))

	now = now.Add(time.Minute)
	require.NoError(t, b.allow())
	b.release()
	assert.Equal(t, breakerHalfOpen, b.current())
	assert.NoError(t, b.allow(), "released probe slot can be reused")
}

func TestDownload_BreakerShortCircuits(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{
		MaxAttempts:      1,
		RatePerSec:       1000,
		BreakerThreshold: 2,
		BreakerCooldown:  time.Hour,
	})

	for range 2 {
		_, err := f.Download(context.Background(), srv.URL+"/summary_data.json")
		require.Error(t, err)
	}
	_, err := f.Download(context.Background(), srv.URL+"/summary_data.json")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUpstreamUnavailable))
	assert.Equal(t, int32(2), hits.Load())
}

func TestDownload_BreakerDisabled(t *testing.T) {
	f := NewHTTPFetcher(HTTPOptions{})
	assert.Nil(t, f.breakerFor("example.org"))
}
