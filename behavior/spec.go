// Package behavior defines the behaviors a tester is asked to verify and expands them into the
// ordered worklist of single-mode behaviors for the selected assistive technology.
package behavior

import (
	"github.com/launchdarkly/aria-at-harness/hostwindow"
)

// SetupFunc is re-exported so that test definitions only need to import this package.
type SetupFunc = hostwindow.SetupFunc

// Spec is a behavior as registered by a test definition. It may span several modes.
type Spec struct {
	Modes                   []string
	Task                    string
	SpecificUserInstruction string
	Assertions              []string
	SetupHostWindow         SetupFunc
}

// Resolved is a Spec narrowed to a single mode, together with the commands the selected AT
// offers for that mode and task. Commands is never empty.
type Resolved struct {
	Mode                    string
	Task                    string
	SpecificUserInstruction string
	Assertions              []string
	Commands                []string
	SetupHostWindow         SetupFunc
}

// ID identifies the behavior for filtering and logging.
func (r Resolved) ID() string {
	return r.Task + "/" + r.Mode
}

// HasSetup is true if the behavior needs the host window to be put into a particular state.
func (r Resolved) HasSetup() bool {
	return r.SetupHostWindow != nil
}
