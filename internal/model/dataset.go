package model

// Dataset is the result of one successful load of all three data files.
type Dataset struct {
	Summary  SummaryRecord   `json:"summary"`
	Regions  []RegionRecord  `json:"regions"`
	Timeline []TimelineFrame `json:"timeline"`
}
