package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/launchdarkly/aria-at-harness/behavior"
	"github.com/launchdarkly/aria-at-harness/framework"
	"github.com/launchdarkly/aria-at-harness/report"
	"github.com/launchdarkly/aria-at-harness/results"
)

// EventLogger prints the progress of a run, one line per event. It implements
// runner.EventLogger.
type EventLogger struct {
	Out io.Writer

	// DebugOutputOnFailure dumps the debug output of behaviors that did not pass.
	DebugOutputOnFailure bool
	// DebugOutputOnSuccess dumps the debug output of behaviors that passed.
	DebugOutputOnSuccess bool

	lock sync.Mutex
}

func (c *EventLogger) BehaviorSkipped(id string, reason string) {
	if reason == "" {
		c.printf("  SKIPPED: %s\n", id)
	} else {
		c.printf("  SKIPPED: %s (%s)\n", id, reason)
	}
}

func (c *EventLogger) BehaviorStarted(index, total int, b behavior.Resolved) {
	c.printf("[%s] (%d of %d)\n", b.ID(), index+1, total)
}

func (c *EventLogger) ValidationFailed(b behavior.Resolved, failures []results.ValidationFailure) {
	for _, f := range failures {
		for _, line := range strings.Split(f.Error(), "\n") {
			c.printf("  %s\n", line)
		}
	}
}

func (c *EventLogger) BehaviorSubmitted(r results.BehaviorResult, debugOutput framework.CapturedOutput) {
	passed := r.Status == results.StatusPass
	if !passed {
		c.printf("  %s: %s\n", report.StatusString(r.Status), r.ID())
	}
	if len(debugOutput) > 0 &&
		((!passed && c.DebugOutputOnFailure) || (passed && c.DebugOutputOnSuccess)) {
		c.lock.Lock()
		debugOutput.Dump(c.Out, "    DEBUG ")
		c.lock.Unlock()
	}
}

func (c *EventLogger) HostWindowEvent(message string) {
	c.printf("  host window %s\n", message)
}

func (c *EventLogger) RunFinished(r report.SuiteReport) {
	c.printf("Finished %d behavior(s): %s\n", len(r.Behaviors), report.StatusString(r.Status))
}

func (c *EventLogger) printf(format string, args ...interface{}) {
	c.lock.Lock()
	defer c.lock.Unlock()
	fmt.Fprintf(c.Out, format, args...)
}
