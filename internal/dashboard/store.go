// Package dashboard is the explicit state store for one mounted dashboard
// and the pure function that turns its state into a view model.
package dashboard

import (
	"github.com/sells-group/cobenefits-atlas/internal/loader"
	"github.com/sells-group/cobenefits-atlas/internal/model"
	"github.com/sells-group/cobenefits-atlas/internal/scroll"
	"github.com/sells-group/cobenefits-atlas/internal/selection"
)

// State is everything that mutates during a session. Loaded records in
// Data are never modified.
type State struct {
	Load         loader.State
	Data         *model.Dataset
	Err          error
	Selection    selection.State
	ScrollY      float64
	Viewport     float64
	ScrollTarget *scroll.Target
	TornDown     bool
}

// Event is a discrete input to the store.
type Event interface {
	event()
}

type (
	// LoadStarted marks the beginning of a (re)load.
	LoadStarted struct{}
	// LoadSucceeded delivers a complete dataset.
	LoadSucceeded struct{ Data *model.Dataset }
	// LoadFailed reports that any of the three fetches failed.
	LoadFailed struct{ Err error }
	// RegionClicked is a click on a region bar.
	RegionClicked struct{ Name string }
	// DetailClosed is the detail panel's close control.
	DetailClosed struct{}
	// Scrolled reports the current vertical offset.
	Scrolled struct{ Y float64 }
	// ScrollRequested is the "scroll to next section" action.
	ScrollRequested struct{}
	// ScrollSettled clears a pending scroll target once reached.
	ScrollSettled struct{}
	// Resized reports the viewport height.
	Resized struct{ Height float64 }
	// TornDown ends the session; later events are ignored.
	TornDown struct{}
)

func (LoadStarted) event()     {}
func (LoadSucceeded) event()   {}
func (LoadFailed) event()      {}
func (RegionClicked) event()   {}
func (DetailClosed) event()    {}
func (Scrolled) event()        {}
func (ScrollRequested) event() {}
func (ScrollSettled) event()   {}
func (Resized) event()         {}
func (TornDown) event()        {}

// Store applies events to State. Like the scroll controller it wraps, a
// Store belongs to a single event loop and takes no locks.
type Store struct {
	state    State
	scroll   scroll.Controller
	onScroll func(float64)
}

// NewStore returns a store in the not-started state.
func NewStore() *Store {
	s := &Store{}
	s.onScroll = s.scroll.Listener()
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	return s.state
}

// Apply performs one transition and returns the new state.
func (s *Store) Apply(e Event) State {
	if s.state.TornDown {
		return s.state
	}

	switch e := e.(type) {
	case LoadStarted:
		s.state.Load = loader.StateLoading
		s.state.Err = nil
	case LoadSucceeded:
		if e.Data == nil {
			break
		}
		// Selection is kept across reloads; a stale name resolves to no detail.
		s.state.Load = loader.StateReady
		s.state.Data = e.Data
		s.state.Err = nil
	case LoadFailed:
		s.state.Load = loader.StateFailed
		s.state.Err = e.Err
	case RegionClicked:
		if s.state.Load != loader.StateReady || s.state.Data == nil {
			break
		}
		s.state.Selection = s.state.Selection.Click(e.Name, s.state.Data.Regions)
	case DetailClosed:
		s.state.Selection = s.state.Selection.Close()
	case Scrolled:
		s.onScroll(e.Y)
		s.state.ScrollY = s.scroll.Offset()
	case ScrollRequested:
		t := s.scroll.ScrollToNext(s.state.Viewport)
		s.state.ScrollTarget = &t
	case ScrollSettled:
		s.state.ScrollTarget = nil
	case Resized:
		if e.Height > 0 {
			s.state.Viewport = e.Height
		}
	case TornDown:
		s.scroll.Detach()
		s.state.TornDown = true
		s.state.ScrollTarget = nil
	}
	return s.state
}
