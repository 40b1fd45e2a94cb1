package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/cobenefits-atlas/internal/fetcher"
	"github.com/sells-group/cobenefits-atlas/internal/loader"
)

// Mount runs one full page lifecycle: a fresh loader, a load, an optional
// region click, a render, and teardown. The returned error is the load
// failure; the view always reflects it.
func Mount(ctx context.Context, f fetcher.Fetcher, res loader.Resources, region string) (View, error) {
	l := loader.New(f, res)
	defer l.Close()

	s := NewStore()
	defer s.Apply(TornDown{})

	log := zap.L().With(zap.String("session", l.Session()))

	s.Apply(LoadStarted{})
	data, err := l.Load(ctx)
	if err != nil {
		log.Warn("dashboard: load failed", zap.Error(err))
		return Render(s.Apply(LoadFailed{Err: err})), err
	}
	s.Apply(LoadSucceeded{Data: data})

	if region != "" {
		s.Apply(RegionClicked{Name: region})
	}
	v := Render(s.State())
	log.Debug("dashboard: mounted",
		zap.String("region", region),
		zap.Bool("detail", v.Detail != nil),
	)
	return v, nil
}
