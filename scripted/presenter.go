package scripted

import (
	"github.com/launchdarkly/aria-at-harness/framework"
	"github.com/launchdarkly/aria-at-harness/report"
	"github.com/launchdarkly/aria-at-harness/results"
	"github.com/launchdarkly/aria-at-harness/runner"
)

// Presenter logs what would have been shown to a tester. It implements runner.Presenter.
type Presenter struct {
	Logger framework.Logger
}

func (p Presenter) logger() framework.Logger {
	if p.Logger == nil {
		return framework.NullLogger()
	}
	return p.Logger
}

func (p Presenter) RenderWarnings(warnings []string) {
	for _, w := range warnings {
		p.logger().Printf("Warning: %s", w)
	}
}

func (p Presenter) RenderInstructions(v runner.InstructionsView) {
	p.logger().Printf("Testing behavior %d of %d: %s (%d commands)", v.Index+1, v.Total, v.Behavior.ID(), len(v.Behavior.Commands))
}

func (p Presenter) RenderResultForm(runner.FormView) {}

func (p Presenter) FocusControl(f results.ValidationFailure) {
	p.logger().Printf("Missing input for %s: %s", f.ControlID(), f)
}

func (p Presenter) SetHostWindowControl(bool) {}

func (p Presenter) RenderError(err error) {
	p.logger().Printf("Error: %s", err)
}

func (p Presenter) RenderFinalReport(r report.SuiteReport) {
	p.logger().Printf("Run finished with status %s", r.Status)
}
