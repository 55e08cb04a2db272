package models

// AnalyticsSnapshot is the per-slug engagement counters. The record lives in
// its own Redis hash with an independent lifecycle: it may not exist yet when
// first queried, in which case every counter reads as zero.
type AnalyticsSnapshot struct {
	Views     int64 `json:"views"`
	Copies    int64 `json:"copies"`
	Downloads int64 `json:"downloads"`
}

// AnalyticsAction is one tracked engagement action.
type AnalyticsAction string

const (
	ActionView     AnalyticsAction = "view"
	ActionCopy     AnalyticsAction = "copy"
	ActionDownload AnalyticsAction = "download"
)

// CounterField maps an action onto its counter field name. The empty string
// marks an unrecognized action.
func (a AnalyticsAction) CounterField() string {
	switch a {
	case ActionView:
		return "views"
	case ActionCopy:
		return "copies"
	case ActionDownload:
		return "downloads"
	default:
		return ""
	}
}
