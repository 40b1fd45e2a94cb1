// Package selection holds the "currently selected region" toggle.
package selection

import "github.com/sells-group/cobenefits-atlas/internal/model"

// State is either none or selected(region). The zero value is none.
type State struct {
	region string
	active bool
}

// None is the empty selection.
var None = State{}

// Selected returns the selected region name and whether one is selected.
func (s State) Selected() (string, bool) {
	return s.region, s.active
}

// Is reports whether name is the selected region.
func (s State) Is(name string) bool {
	return s.active && s.region == name
}

// Name returns the selected region, or "" for none.
func (s State) Name() string {
	if !s.active {
		return ""
	}
	return s.region
}

// Click returns the state after clicking the bar of region name. Clicking
// the selected region clears the selection; clicking any other region
// present in regions selects it. Names not in regions leave the state
// unchanged.
func (s State) Click(name string, regions []model.RegionRecord) State {
	if s.Is(name) {
		return None
	}
	if _, ok := model.FindRegion(regions, name); !ok {
		return s
	}
	return State{region: name, active: true}
}

// Close returns the state after the detail panel's close control.
func (s State) Close() State {
	return None
}

// Detail resolves the selected region against the current data. It returns
// false when nothing is selected or when the selected name no longer exists
// after a reload. The selection itself is not cleared in that case.
func (s State) Detail(regions []model.RegionRecord) (model.RegionRecord, bool) {
	if !s.active {
		return model.RegionRecord{}, false
	}
	return model.FindRegion(regions, s.region)
}
