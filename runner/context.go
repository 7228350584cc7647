package runner

import (
	"github.com/launchdarkly/aria-at-harness/behavior"
	"github.com/launchdarkly/aria-at-harness/framework"
)

// CommandTable is the AT lookup the runner needs. *atcommands.Table implements it.
type CommandTable interface {
	behavior.CommandLookup
	ModeInstructions(mode, at string) string
}

// RunnerContext is the fixed configuration of one run.
type RunnerContext struct {
	// Title names the test; it becomes the report's title.
	Title string

	// AT is the canonical name of the assistive technology under test.
	AT string

	Commands CommandTable

	// Warnings are non-fatal configuration problems to show the tester before the first behavior.
	// They never appear in the report.
	Warnings []string

	// Filter, if set, excludes behaviors whose ID it rejects.
	Filter framework.Filter
}
