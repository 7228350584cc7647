package runner

import (
	"github.com/launchdarkly/aria-at-harness/behavior"
	"github.com/launchdarkly/aria-at-harness/report"
	"github.com/launchdarkly/aria-at-harness/results"
)

// InstructionsView is what the tester needs to know to perform one behavior.
type InstructionsView struct {
	Index            int
	Total            int
	AT               string
	ModeInstructions string
	Behavior         behavior.Resolved
}

// FormView describes the result form for one behavior. Matrix is the live matrix the tester's
// input should be recorded in.
type FormView struct {
	Title    string
	Behavior behavior.Resolved
	Matrix   *results.Matrix
}

// Presenter is everything the runner needs from a user interface. The runner calls it without
// knowing how anything is displayed; an interactive console and a headless scripted run are
// both Presenters.
//
// SetHostWindowControl may be called from a goroutine other than the one driving the runner,
// when the host window is closed by the tester.
type Presenter interface {
	RenderWarnings(warnings []string)
	RenderInstructions(view InstructionsView)
	RenderResultForm(view FormView)
	FocusControl(failure results.ValidationFailure)
	SetHostWindowControl(enabled bool)
	RenderError(err error)
	RenderFinalReport(r report.SuiteReport)
}

type nullPresenter struct{}

func (nullPresenter) RenderWarnings([]string)                {}
func (nullPresenter) RenderInstructions(InstructionsView)    {}
func (nullPresenter) RenderResultForm(FormView)              {}
func (nullPresenter) FocusControl(results.ValidationFailure) {}
func (nullPresenter) SetHostWindowControl(bool)              {}
func (nullPresenter) RenderError(error)                      {}
func (nullPresenter) RenderFinalReport(report.SuiteReport)   {}
