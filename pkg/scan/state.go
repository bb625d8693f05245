package scan

import (
	"github.com/sdejongh/dupfinder/pkg/compare"
	"github.com/sdejongh/dupfinder/pkg/models"
)

// State is a phase of the scan lifecycle
type State int

const (
	StateInit State = iota
	StateReferenceOpened
	StateDirectoryOpened
	StateEnumerating
	StateFiltering
	StateBuildingPath
	StateOpeningCandidate
	StateComparing
	StateReporting
	StateClosingCandidate
	StateDone
	StateFailed
	StateCancelled
)

var stateNames = [...]string{
	StateInit:             "init",
	StateReferenceOpened:  "reference_opened",
	StateDirectoryOpened:  "directory_opened",
	StateEnumerating:      "enumerating",
	StateFiltering:        "filtering",
	StateBuildingPath:     "building_path",
	StateOpeningCandidate: "opening_candidate",
	StateComparing:        "comparing",
	StateReporting:        "reporting",
	StateClosingCandidate: "closing_candidate",
	StateDone:             "done",
	StateFailed:           "failed",
	StateCancelled:        "cancelled",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// lifecycle reports whether s is a once-per-scan state rather than a per-entry one
func (s State) lifecycle() bool {
	switch s {
	case StateFiltering, StateBuildingPath, StateOpeningCandidate,
		StateComparing, StateReporting, StateClosingCandidate:
		return false
	}
	return true
}

// StatusFor maps a final state to the report status
func StatusFor(s State) models.ScanStatus {
	switch s {
	case StateDone:
		return models.StatusSuccess
	case StateCancelled:
		return models.StatusCancelled
	default:
		return models.StatusFailed
	}
}

// Action tells the enumeration what to do after an entry
type Action int

const (
	// ActionContinue moves on to the next entry
	ActionContinue Action = iota
	// ActionStop ends enumeration cleanly
	ActionStop
	// ActionError aborts enumeration with StepResult.Err
	ActionError
)

func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionStop:
		return "stop"
	case ActionError:
		return "error"
	}
	return "unknown"
}

// StepResult is the outcome of processing one directory entry
type StepResult struct {
	Action Action
	Err    error // Set when Action is ActionError

	Skip    SkipReason      // Why the entry was not compared
	Path    string          // Candidate path, once built
	Outcome compare.Outcome // Empty unless a comparison ran

	// EntryErr is a non-fatal failure for this entry. The scan continues.
	EntryErr *models.ScanError
}

// Continue returns a result that moves on to the next entry
func Continue() StepResult {
	return StepResult{Action: ActionContinue}
}

// Stop returns a result that ends enumeration without error
func Stop() StepResult {
	return StepResult{Action: ActionStop}
}

// Fail returns a result that aborts enumeration with err
func Fail(err error) StepResult {
	return StepResult{Action: ActionError, Err: err}
}
