package results

import (
	"fmt"
	"strings"
)

// Field says which part of the result form a ValidationFailure refers to.
type Field int

const (
	// FieldSpeechOutput is the speech output text of a command.
	FieldSpeechOutput Field = iota
	// FieldJudgment is the judgment for one assertion under a command.
	FieldJudgment
)

// ValidationFailure identifies one required control that the tester has not filled in.
// Assertion is -1 for failures that concern the command as a whole.
type ValidationFailure struct {
	Field     Field
	Command   int
	Assertion int

	CommandName   string
	AssertionName string
}

func (f ValidationFailure) Error() string {
	switch f.Field {
	case FieldSpeechOutput:
		return fmt.Sprintf("speech output is required for command %q", f.CommandName)
	default:
		return fmt.Sprintf("a judgment is required for assertion %q under command %q", f.AssertionName, f.CommandName)
	}
}

// ControlID names the form control the failure refers to, in the same scheme the result form
// uses: "speechoutput-<c>" or "result-<c>-<a>".
func (f ValidationFailure) ControlID() string {
	if f.Field == FieldSpeechOutput {
		return fmt.Sprintf("speechoutput-%d", f.Command)
	}
	return fmt.Sprintf("result-%d-%d", f.Command, f.Assertion)
}

// Validate checks that the matrix can be submitted. For every command, the speech output must
// be non-blank, and either a shortcut state applies or every assertion has a judgment.
//
// Failures are returned in command-then-assertion order, so the first one is where the tester's
// attention should go.
func (m *Matrix) Validate() []ValidationFailure {
	var ret []ValidationFailure
	for c, cmd := range m.behavior.Commands {
		if strings.TrimSpace(m.speech[c]) == "" {
			ret = append(ret, ValidationFailure{
				Field:       FieldSpeechOutput,
				Command:     c,
				Assertion:   -1,
				CommandName: cmd,
			})
		}
		if m.allAre(c, JudgmentCorrect) || m.allAre(c, JudgmentIncomplete) {
			continue
		}
		for a, assertion := range m.behavior.Assertions {
			if m.cells[c][a] == JudgmentUnset {
				ret = append(ret, ValidationFailure{
					Field:         FieldJudgment,
					Command:       c,
					Assertion:     a,
					CommandName:   cmd,
					AssertionName: assertion,
				})
			}
		}
	}
	return ret
}
