// Package results records a tester's judgments for one behavior and rolls them up into
// assertion, behavior and suite statuses.
//
// Every roll-up uses the same total order, Fail over Incomplete over Pass: a single incorrect
// judgment anywhere fails the suite, and missing or ambiguous information never counts as a
// pass but never outranks an actual failure.
package results

import (
	"fmt"
	"strings"
)

// Judgment is the tester's classification of an assertion's outcome for one command.
type Judgment int

const (
	JudgmentUnset Judgment = iota
	JudgmentCorrect
	JudgmentIncorrect
	JudgmentIncomplete
)

func (j Judgment) String() string {
	switch j {
	case JudgmentUnset:
		return "unset"
	case JudgmentCorrect:
		return "correct"
	case JudgmentIncorrect:
		return "incorrect"
	case JudgmentIncomplete:
		return "incomplete"
	default:
		return fmt.Sprintf("Judgment(%d)", int(j))
	}
}

func (j Judgment) valid() bool {
	return j >= JudgmentUnset && j <= JudgmentIncomplete
}

// ParseJudgment accepts the names returned by Judgment.String, case-insensitively. "missing"
// and "no output" are accepted as synonyms for incomplete.
func ParseJudgment(s string) (Judgment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset":
		return JudgmentUnset, nil
	case "correct":
		return JudgmentCorrect, nil
	case "incorrect":
		return JudgmentIncorrect, nil
	case "incomplete", "missing", "no output":
		return JudgmentIncomplete, nil
	}
	return JudgmentUnset, fmt.Errorf("unknown judgment %q", s)
}

func (j *Judgment) UnmarshalText(data []byte) error {
	parsed, err := ParseJudgment(string(data))
	if err != nil {
		return err
	}
	*j = parsed
	return nil
}

// Status is the outcome of an assertion, a behavior or a whole run. Larger values are worse,
// so the zero value is StatusPass.
type Status int

const (
	StatusPass Status = iota
	StatusIncomplete
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusIncomplete:
		return "INCOMPLETE"
	case StatusFail:
		return "FAIL"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	if s < StatusPass || s > StatusFail {
		return nil, fmt.Errorf("cannot marshal invalid status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(data []byte) error {
	switch strings.ToUpper(string(data)) {
	case "PASS":
		*s = StatusPass
	case "INCOMPLETE":
		*s = StatusIncomplete
	case "FAIL":
		*s = StatusFail
	default:
		return fmt.Errorf("unknown status %q", string(data))
	}
	return nil
}

// Worst returns the worst of the given statuses, or StatusPass if there are none.
func Worst(statuses ...Status) Status {
	ret := StatusPass
	for _, s := range statuses {
		if s > ret {
			ret = s
		}
	}
	return ret
}
