package visitor

import (
	"sync"

	"github.com/smartengage/smartengage-go/internal/domain/popup"
)

// TriggerPhase tracks where a popup's trigger machine is for one page load.
type TriggerPhase string

const (
	PhaseIdle  TriggerPhase = "idle"
	PhaseArmed TriggerPhase = "armed"
	PhaseFired TriggerPhase = "fired"
)

// Condition keys tracked by the machine.
const (
	CondTimeOnPage  = "time_on_page"
	CondScrollDepth = "scroll_depth"
	CondExitIntent  = "exit_intent"
	CondPageViews   = "page_views"
)

// Signal carries the client-observed measurements for one trigger check.
// Nil fields mean the measurement was not taken on this check.
type Signal struct {
	TimeOnPageSec *int `json:"timeOnPageSec,omitempty"`
	ScrollDepth   *int `json:"scrollDepth,omitempty"`
	ExitIntent    bool `json:"exitIntent,omitempty"`
	PageViews     *int `json:"pageViews,omitempty"`
}

// TriggerMachine evaluates a popup's trigger conditions across repeated
// signals within a single page load. Satisfaction is sticky: once a
// condition has been met it stays met even if a later signal regresses.
// Signals for the same page load can arrive on concurrent requests, so
// Apply serializes internally.
type TriggerMachine struct {
	mu sync.Mutex

	Phase     TriggerPhase    `json:"phase"`
	Satisfied map[string]bool `json:"satisfied"`
}

// NewTriggerMachine returns a machine in the idle phase.
func NewTriggerMachine() *TriggerMachine {
	return &TriggerMachine{
		Phase:     PhaseIdle,
		Satisfied: make(map[string]bool),
	}
}

// Apply folds a signal into the machine and reports whether the popup
// should be shown now. It returns true exactly once, on the transition
// into the fired phase; every later call returns false.
func (m *TriggerMachine) Apply(triggers popup.Triggers, sig Signal) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Phase == PhaseFired {
		return false
	}
	if m.Satisfied == nil {
		m.Satisfied = make(map[string]bool)
	}
	m.Phase = PhaseArmed

	m.absorb(triggers.Conditions, sig)

	if m.conditionsMet(triggers) {
		m.Phase = PhaseFired
		return true
	}
	return false
}

func (m *TriggerMachine) absorb(conds popup.TriggerConditions, sig Signal) {
	if conds.TimeOnPageSec != nil && sig.TimeOnPageSec != nil && *sig.TimeOnPageSec >= *conds.TimeOnPageSec {
		m.Satisfied[CondTimeOnPage] = true
	}
	if conds.ScrollDepth != nil && sig.ScrollDepth != nil && *sig.ScrollDepth >= *conds.ScrollDepth {
		m.Satisfied[CondScrollDepth] = true
	}
	if conds.ExitIntent && sig.ExitIntent {
		m.Satisfied[CondExitIntent] = true
	}
	if conds.PageViews != nil && sig.PageViews != nil && *sig.PageViews >= *conds.PageViews {
		m.Satisfied[CondPageViews] = true
	}
}

func (m *TriggerMachine) conditionsMet(triggers popup.Triggers) bool {
	active := activeConditions(triggers.Conditions)
	if len(active) == 0 {
		// No conditions configured: show on the first check.
		return true
	}

	if triggers.Combinator == popup.CombinatorAll {
		for _, key := range active {
			if !m.Satisfied[key] {
				return false
			}
		}
		return true
	}

	for _, key := range active {
		if m.Satisfied[key] {
			return true
		}
	}
	return false
}

func activeConditions(conds popup.TriggerConditions) []string {
	var active []string
	if conds.TimeOnPageSec != nil {
		active = append(active, CondTimeOnPage)
	}
	if conds.ScrollDepth != nil {
		active = append(active, CondScrollDepth)
	}
	if conds.ExitIntent {
		active = append(active, CondExitIntent)
	}
	if conds.PageViews != nil {
		active = append(active, CondPageViews)
	}
	return active
}
