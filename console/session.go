package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/launchdarkly/aria-at-harness/results"
	"github.com/launchdarkly/aria-at-harness/runner"
)

const (
	OpenCommand = ":open"
	QuitCommand = ":quit"
)

var (
	// ErrQuit is returned by Session.Run when the tester stops the run.
	ErrQuit = errors.New("run stopped by the tester")

	// ErrInputClosed is returned by Session.Run when input ends before the run is finished.
	ErrInputClosed = errors.New("input ended before the run was finished")
)

// Session reads the tester's results from a terminal and submits them to a Runner whose run has
// already begun.
type Session struct {
	runner  *runner.Runner
	in      *bufio.Scanner
	out     io.Writer
	canOpen bool
}

// NewSession creates a Session. If canOpen is false, OpenCommand is not accepted.
func NewSession(r *runner.Runner, in io.Reader, out io.Writer, canOpen bool) *Session {
	return &Session{runner: r, in: bufio.NewScanner(in), out: out, canOpen: canOpen}
}

// Run prompts for every behavior until the run is finished.
func (s *Session) Run(ctx context.Context) error {
	for {
		state, _ := s.runner.State()
		if state == runner.StateFinished {
			return nil
		}
		m := s.runner.Matrix()
		if m == nil {
			return runner.ErrRunNotInProgress
		}
		if err := s.fillAll(ctx, m); err != nil {
			return err
		}
		for {
			failures, err := s.runner.Submit(ctx)
			if err != nil {
				return err
			}
			if len(failures) == 0 {
				break
			}
			if err := s.fillMissing(ctx, m, failures); err != nil {
				return err
			}
		}
	}
}

func (s *Session) fillAll(ctx context.Context, m *results.Matrix) error {
	b := m.Behavior()
	for c, cmd := range b.Commands {
		if err := s.askSpeechOutput(ctx, m, c); err != nil {
			return err
		}
		for {
			answer, err := s.ask(ctx, fmt.Sprintf("Results for %q [a=all correct, n=no output, e=each]: ", cmd))
			if err != nil {
				return err
			}
			switch strings.ToLower(answer) {
			case "a":
				err = m.ApplyAllCorrect(c)
			case "n":
				err = m.ApplyAllIncomplete(c)
			case "e":
				for a := range b.Assertions {
					if err = s.askJudgment(ctx, m, c, a); err != nil {
						break
					}
				}
			default:
				fmt.Fprintf(s.out, "Please answer a, n or e.\n")
				continue
			}
			if err != nil {
				return err
			}
			break
		}
	}
	return nil
}

func (s *Session) fillMissing(ctx context.Context, m *results.Matrix, failures []results.ValidationFailure) error {
	for _, f := range failures {
		var err error
		switch f.Field {
		case results.FieldSpeechOutput:
			err = s.askSpeechOutput(ctx, m, f.Command)
		case results.FieldJudgment:
			err = s.askJudgment(ctx, m, f.Command, f.Assertion)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) askSpeechOutput(ctx context.Context, m *results.Matrix, c int) error {
	cmd := m.Behavior().Commands[c]
	text, err := s.ask(ctx, fmt.Sprintf("Speech output after %q: ", cmd))
	if err != nil {
		return err
	}
	return m.SetSpeechOutput(c, text)
}

func (s *Session) askJudgment(ctx context.Context, m *results.Matrix, c, a int) error {
	b := m.Behavior()
	prompt := fmt.Sprintf("  %s [c=correct, x=incorrect, m=missing]: ", b.Assertions[a])
	for {
		answer, err := s.ask(ctx, prompt)
		if err != nil {
			return err
		}
		j, ok := parseShortJudgment(answer)
		if !ok {
			fmt.Fprintf(s.out, "Please answer c, x or m.\n")
			continue
		}
		if err := m.SetJudgment(c, a, j); err != nil {
			return err
		}
		if j == results.JudgmentCorrect {
			return nil
		}
		note, err := s.ask(ctx, "  Notes (optional): ")
		if err != nil {
			return err
		}
		return m.SetNote(c, a, note)
	}
}

func parseShortJudgment(answer string) (results.Judgment, bool) {
	switch strings.ToLower(answer) {
	case "c":
		return results.JudgmentCorrect, true
	case "x":
		return results.JudgmentIncorrect, true
	case "m":
		return results.JudgmentIncomplete, true
	}
	j, err := results.ParseJudgment(answer)
	if err != nil || j == results.JudgmentUnset {
		return results.JudgmentUnset, false
	}
	return j, true
}

// ask prompts for one line of input, handling OpenCommand and QuitCommand along the way.
func (s *Session) ask(ctx context.Context, prompt string) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(s.out, prompt)
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return "", err
			}
			return "", ErrInputClosed
		}
		line := strings.TrimSpace(s.in.Text())
		switch {
		case line == QuitCommand:
			s.runner.Abandon(ctx)
			return "", ErrQuit
		case line == OpenCommand && s.canOpen:
			if err := s.runner.OpenHostWindow(ctx); errors.Is(err, runner.ErrHostWindowAlreadyOpen) {
				fmt.Fprintln(s.out, "The test page is already open.")
			}
			continue
		}
		return line, nil
	}
}
