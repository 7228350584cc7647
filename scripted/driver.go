package scripted

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/launchdarkly/aria-at-harness/results"
	"github.com/launchdarkly/aria-at-harness/runner"
)

// ErrNoAnswer means the answers ran out before the run was finished.
var ErrNoAnswer = errors.New("no answer for behavior")

// Run answers every behavior of a run that has already begun, in order. A submission that the
// runner rejects is an error, since nobody is there to fix it.
func Run(ctx context.Context, r *runner.Runner, answers Answers) error {
	if answers.OpenHostWindow {
		if state, _ := r.State(); state == runner.StateAwaitingSubmission {
			if err := r.OpenHostWindow(ctx); err != nil {
				return err
			}
		}
	}
	for i := 0; ; i++ {
		state, index := r.State()
		if state == runner.StateFinished {
			if i < len(answers.Behaviors) {
				return fmt.Errorf("%d answer(s) left over after the last behavior", len(answers.Behaviors)-i)
			}
			return nil
		}
		m := r.Matrix()
		if m == nil {
			return runner.ErrRunNotInProgress
		}
		id := m.Behavior().ID()
		if i >= len(answers.Behaviors) {
			return fmt.Errorf("%w %d (%s)", ErrNoAnswer, index+1, id)
		}
		answer := answers.Behaviors[i]
		if answer.ID != "" && answer.ID != id {
			return fmt.Errorf("answer %d is for %q but the behavior is %q", i+1, answer.ID, id)
		}
		if len(answer.Commands) != m.NumCommands() {
			return fmt.Errorf("answer %d (%s) has %d command(s), behavior has %d", i+1, id, len(answer.Commands), m.NumCommands())
		}
		for c, ca := range answer.Commands {
			if err := ca.apply(m, c); err != nil {
				return fmt.Errorf("answer %d (%s), command %d: %w", i+1, id, c+1, err)
			}
		}
		failures, err := r.Submit(ctx)
		if err != nil {
			return err
		}
		if len(failures) > 0 {
			return fmt.Errorf("answer %d (%s) is incomplete: %s", i+1, id, describe(failures))
		}
	}
}

func describe(failures []results.ValidationFailure) string {
	var ss []string
	for _, f := range failures {
		ss = append(ss, f.Error())
	}
	return strings.Join(ss, "; ")
}
