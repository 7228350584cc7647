// Package console runs the harness in a terminal: it shows the tester what to do and reads
// their results from standard input.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/launchdarkly/aria-at-harness/report"
	"github.com/launchdarkly/aria-at-harness/results"
	"github.com/launchdarkly/aria-at-harness/runner"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	headingColor = color.New(color.Bold, color.Underline)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	hintColor    = color.New(color.Faint)
)

// Presenter writes everything the runner presents to a terminal. It implements
// runner.Presenter.
type Presenter struct {
	out           io.Writer
	hostAvailable bool
	hostEnabled   bool
	lock          sync.Mutex
}

// NewPresenter creates a Presenter. hostAvailable says whether the run can open host windows
// at all; if not, the tester is told to open the page under test themselves.
func NewPresenter(out io.Writer, hostAvailable bool) *Presenter {
	return &Presenter{out: out, hostAvailable: hostAvailable}
}

func (p *Presenter) RenderWarnings(warnings []string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	for _, w := range warnings {
		fmt.Fprintf(p.out, "%s %s\n", warningColor.Sprint("WARNING:"), w)
	}
	fmt.Fprintln(p.out)
}

func (p *Presenter) RenderInstructions(v runner.InstructionsView) {
	p.lock.Lock()
	defer p.lock.Unlock()

	b := v.Behavior
	fmt.Fprintln(p.out, headingColor.Sprintf("Testing behavior %d of %d", v.Index+1, v.Total))
	fmt.Fprintln(p.out)
	if v.ModeInstructions != "" {
		fmt.Fprintf(p.out, "1. %s\n", v.ModeInstructions)
	}
	instruction := b.SpecificUserInstruction
	if instruction == "" {
		instruction = b.Task
	}
	fmt.Fprintf(p.out, "2. %s using the following commands:\n", strings.TrimSuffix(instruction, "."))

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", v.AT + " command"})
	for i, cmd := range b.Commands {
		t.AppendRow(table.Row{i + 1, cmd})
	}
	t.Render()

	if len(b.Assertions) > 0 {
		fmt.Fprintln(p.out, "After each command, verify that:")
		for i, a := range b.Assertions {
			fmt.Fprintf(p.out, "  %c. %s\n", 'a'+rune(i%26), a)
		}
	}
	fmt.Fprintln(p.out)
}

func (p *Presenter) RenderResultForm(v runner.FormView) {
	p.lock.Lock()
	defer p.lock.Unlock()
	fmt.Fprintf(p.out, "Record results for %s (%s mode).\n", v.Title, v.Behavior.Mode)
	fmt.Fprintln(p.out, hintColor.Sprint(
		"For each command, type the speech output, then 'a' if all assertions are correct, "+
			"'n' if there was no output, or 'e' to judge each assertion."))
	if p.hostAvailable {
		fmt.Fprintln(p.out, hintColor.Sprintf("Type %s at any prompt to open the test page, %s to stop.", OpenCommand, QuitCommand))
	} else {
		fmt.Fprintln(p.out, hintColor.Sprintf("Type %s at any prompt to stop.", QuitCommand))
	}
	fmt.Fprintln(p.out)
}

func (p *Presenter) FocusControl(f results.ValidationFailure) {
	p.lock.Lock()
	defer p.lock.Unlock()
	fmt.Fprintf(p.out, "%s %s\n", errorColor.Sprint("Required:"), f.Error())
}

func (p *Presenter) SetHostWindowControl(enabled bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if !p.hostAvailable || enabled == p.hostEnabled {
		return
	}
	p.hostEnabled = enabled
	if enabled {
		fmt.Fprintln(p.out, hintColor.Sprintf("The test page is not open. Type %s to open it.", OpenCommand))
	}
}

// HostWindowControlEnabled is true when the tester may open the host window.
func (p *Presenter) HostWindowControlEnabled() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.hostEnabled
}

func (p *Presenter) RenderError(err error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	fmt.Fprintf(p.out, "%s %s\n", errorColor.Sprint("ERROR:"), err)
}

func (p *Presenter) RenderFinalReport(r report.SuiteReport) {
	p.lock.Lock()
	defer p.lock.Unlock()
	fmt.Fprintln(p.out)
	report.PrintSummary(p.out, r)
}
