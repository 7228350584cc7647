package runner

import (
	"github.com/launchdarkly/aria-at-harness/behavior"
	"github.com/launchdarkly/aria-at-harness/framework"
	"github.com/launchdarkly/aria-at-harness/report"
	"github.com/launchdarkly/aria-at-harness/results"
)

// EventLogger receives notifications about the progress of a run.
type EventLogger interface {
	BehaviorSkipped(id string, reason string)
	BehaviorStarted(index, total int, b behavior.Resolved)
	ValidationFailed(b behavior.Resolved, failures []results.ValidationFailure)
	BehaviorSubmitted(r results.BehaviorResult, debugOutput framework.CapturedOutput)
	HostWindowEvent(message string)
	RunFinished(r report.SuiteReport)
}

type nullEventLogger struct{}

func (nullEventLogger) BehaviorSkipped(string, string)                                     {}
func (nullEventLogger) BehaviorStarted(int, int, behavior.Resolved)                        {}
func (nullEventLogger) ValidationFailed(behavior.Resolved, []results.ValidationFailure)    {}
func (nullEventLogger) BehaviorSubmitted(results.BehaviorResult, framework.CapturedOutput) {}
func (nullEventLogger) HostWindowEvent(string)                                             {}
func (nullEventLogger) RunFinished(report.SuiteReport)                                     {}
