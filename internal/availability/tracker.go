package availability

import "sync"

// State is the current availability view for a booking form session.
type State struct {
	Params Params `json:"params"`
	// Available is nil while no result for the current params has landed.
	Available      *bool `json:"available"`
	GuideRequested bool  `json:"guideRequested"`
}

// Tracker serializes availability results against a changing selection.
// Checks run concurrently with user edits; only the result matching the
// latest selection may land, and the dependent named-guide request drops
// back to false whenever availability is no longer known-true.
type Tracker struct {
	mu    sync.Mutex
	state State
}

// NewTracker starts with an empty selection and unknown availability.
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetSelection records a new date/time/duration selection. Availability
// becomes unknown again and the guide request resets.
func (t *Tracker) SetSelection(params Params) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Params == params {
		return
	}
	t.state.Params = params
	t.state.Available = nil
	t.state.GuideRequested = false
}

// ApplyResult lands a check result. Results for a selection that has since
// changed are discarded and the method reports false.
func (t *Tracker) ApplyResult(result Result) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if result.Params != t.state.Params {
		return false
	}
	if !result.Checked {
		t.state.Available = nil
		t.state.GuideRequested = false
		return true
	}
	available := result.Available
	t.state.Available = &available
	if !available {
		t.state.GuideRequested = false
	}
	return true
}

// RequestGuide toggles the named-guide selection. Turning it on requires
// availability to be known-true for the current selection.
func (t *Tracker) RequestGuide(requested bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !requested {
		t.state.GuideRequested = false
		return true
	}
	if t.state.Available == nil || !*t.state.Available {
		return false
	}
	t.state.GuideRequested = true
	return true
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	snapshot := t.state
	if t.state.Available != nil {
		available := *t.state.Available
		snapshot.Available = &available
	}
	return snapshot
}
