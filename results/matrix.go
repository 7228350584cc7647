package results

import (
	"errors"
	"fmt"
	"strings"

	"github.com/launchdarkly/aria-at-harness/behavior"
)

// ErrIndexOutOfRange is returned when a command or assertion index does not exist in the matrix.
var ErrIndexOutOfRange = errors.New("index out of range")

// CommandSummary is the per-command part of the result form: the speech output the tester
// observed, and the two shortcut states.
//
// AllCorrect and AllIncomplete are computed from the command's judgments rather than stored, so
// they can never disagree with them: judging every assertion correct one at a time has the same
// effect as using the all-correct shortcut.
type CommandSummary struct {
	SpeechOutput  string
	AllCorrect    bool
	AllIncomplete bool
}

// Matrix holds the tester's judgments for one resolved behavior: one cell per command and
// assertion, plus a note per cell and a speech output text per command.
//
// A Matrix is not safe for concurrent use; the runner owns the live matrix for the behavior
// being judged.
type Matrix struct {
	behavior behavior.Resolved
	cells    [][]Judgment
	notes    [][]string
	speech   []string
}

// NewMatrix creates an empty matrix for b, with every cell unset.
func NewMatrix(b behavior.Resolved) *Matrix {
	m := &Matrix{
		behavior: b,
		cells:    make([][]Judgment, len(b.Commands)),
		notes:    make([][]string, len(b.Commands)),
		speech:   make([]string, len(b.Commands)),
	}
	for c := range b.Commands {
		m.cells[c] = make([]Judgment, len(b.Assertions))
		m.notes[c] = make([]string, len(b.Assertions))
	}
	return m
}

// Behavior returns the behavior this matrix records judgments for.
func (m *Matrix) Behavior() behavior.Resolved {
	return m.behavior
}

func (m *Matrix) NumCommands() int   { return len(m.behavior.Commands) }
func (m *Matrix) NumAssertions() int { return len(m.behavior.Assertions) }

func (m *Matrix) checkCommand(c int) error {
	if c < 0 || c >= len(m.cells) {
		return fmt.Errorf("command %d of %d: %w", c, len(m.cells), ErrIndexOutOfRange)
	}
	return nil
}

func (m *Matrix) checkCell(c, a int) error {
	if err := m.checkCommand(c); err != nil {
		return err
	}
	if a < 0 || a >= len(m.cells[c]) {
		return fmt.Errorf("assertion %d of %d: %w", a, len(m.cells[c]), ErrIndexOutOfRange)
	}
	return nil
}

// Judgment returns the current judgment for command c and assertion a.
func (m *Matrix) Judgment(c, a int) (Judgment, error) {
	if err := m.checkCell(c, a); err != nil {
		return JudgmentUnset, err
	}
	return m.cells[c][a], nil
}

// SetJudgment records the tester's judgment. Any transition is allowed until the matrix is frozen.
func (m *Matrix) SetJudgment(c, a int, j Judgment) error {
	if err := m.checkCell(c, a); err != nil {
		return err
	}
	if !j.valid() {
		return fmt.Errorf("invalid judgment %d", int(j))
	}
	m.cells[c][a] = j
	return nil
}

// Note returns the tester's note for command c and assertion a.
func (m *Matrix) Note(c, a int) (string, error) {
	if err := m.checkCell(c, a); err != nil {
		return "", err
	}
	return m.notes[c][a], nil
}

// SetNote records an optional free-text note for one cell.
func (m *Matrix) SetNote(c, a int, note string) error {
	if err := m.checkCell(c, a); err != nil {
		return err
	}
	m.notes[c][a] = note
	return nil
}

// SetSpeechOutput records the relevant speech output the tester heard after command c.
func (m *Matrix) SetSpeechOutput(c int, text string) error {
	if err := m.checkCommand(c); err != nil {
		return err
	}
	m.speech[c] = text
	return nil
}

// ApplyAllCorrect judges every assertion for command c correct.
func (m *Matrix) ApplyAllCorrect(c int) error {
	return m.fillCommand(c, JudgmentCorrect)
}

// ApplyAllIncomplete judges every assertion for command c incomplete, meaning the command
// produced no usable output.
func (m *Matrix) ApplyAllIncomplete(c int) error {
	return m.fillCommand(c, JudgmentIncomplete)
}

func (m *Matrix) fillCommand(c int, j Judgment) error {
	if err := m.checkCommand(c); err != nil {
		return err
	}
	for a := range m.cells[c] {
		m.cells[c][a] = j
	}
	return nil
}

// Summary returns the summary state of command c.
func (m *Matrix) Summary(c int) (CommandSummary, error) {
	if err := m.checkCommand(c); err != nil {
		return CommandSummary{}, err
	}
	return CommandSummary{
		SpeechOutput:  m.speech[c],
		AllCorrect:    m.allAre(c, JudgmentCorrect),
		AllIncomplete: m.allAre(c, JudgmentIncomplete),
	}, nil
}

func (m *Matrix) allAre(c int, j Judgment) bool {
	if len(m.cells[c]) == 0 {
		return false
	}
	for _, cell := range m.cells[c] {
		if cell != j {
			return false
		}
	}
	return true
}

// Freeze converts the matrix into a BehaviorResult. It refuses, returning the validation
// failures instead, unless the matrix is complete.
func (m *Matrix) Freeze() (BehaviorResult, []ValidationFailure) {
	if failures := m.Validate(); len(failures) > 0 {
		return BehaviorResult{}, failures
	}

	b := m.behavior
	ret := BehaviorResult{
		Mode:                    b.Mode,
		Task:                    b.Task,
		SpecificUserInstruction: b.SpecificUserInstruction,
		Commands:                append([]string(nil), b.Commands...),
		SpeechOutput:            make(map[string]string, len(b.Commands)),
	}
	for c, cmd := range b.Commands {
		ret.SpeechOutput[cmd] = strings.TrimSpace(m.speech[c])
	}
	for a, name := range b.Assertions {
		cells := make([]Judgment, 0, len(b.Commands))
		details := make([]CommandDetail, 0, len(b.Commands))
		for c, cmd := range b.Commands {
			cells = append(cells, m.cells[c][a])
			details = append(details, CommandDetail{Command: cmd, Judgment: m.cells[c][a], Note: m.notes[c][a]})
		}
		ret.Assertions = append(ret.Assertions, AssertionResult{
			Name:       name,
			Status:     AssertionStatus(cells),
			PerCommand: details,
		})
	}
	ret.Status = BehaviorStatus(ret.Assertions)
	return ret, nil
}
