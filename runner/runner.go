// Package runner sequences a behavior test run: it presents each resolved behavior in turn,
// accepts the tester's submission only once it is complete, and produces the suite report once
// every behavior has been judged.
//
// The run is a one-way state machine:
//
//	Idle -> Presenting(i) -> AwaitingSubmission(i) -> Presenting(i+1) ... -> Finished
//
// There is no way back to a behavior once it has been submitted.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/launchdarkly/aria-at-harness/behavior"
	"github.com/launchdarkly/aria-at-harness/framework"
	"github.com/launchdarkly/aria-at-harness/hostwindow"
	"github.com/launchdarkly/aria-at-harness/report"
	"github.com/launchdarkly/aria-at-harness/results"
)

type State int

const (
	StateIdle State = iota
	StatePresenting
	StateAwaitingSubmission
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePresenting:
		return "Presenting"
	case StateAwaitingSubmission:
		return "AwaitingSubmission"
	case StateFinished:
		return "Finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrRunStarted            = errors.New("the run has already started")
	ErrRunNotInProgress      = errors.New("no run is in progress")
	ErrNotAwaitingSubmission = errors.New("the runner is not waiting for a submission")
	ErrHostWindowAlreadyOpen = errors.New("the host window is already open")
	ErrNoHostWindow          = errors.New("no host window controller is configured")
)

// Options holds the collaborators of a Runner. Everything is optional.
type Options struct {
	Presenter Presenter
	Reporter  report.Reporter
	Events    EventLogger

	// Host opens the secondary window showing the page under test. Without it, the host
	// window control is never enabled.
	Host hostwindow.Controller

	// Resync brings an open host window into the state each new behavior needs. The default
	// is hostwindow.InjectSetup.
	Resync  hostwindow.ResyncStrategy
	Barrier hostwindow.Barrier

	// Logger receives debug output as it happens. Debug output is also captured per behavior
	// and passed to EventLogger.BehaviorSubmitted.
	Logger framework.Logger
}

// Runner drives one run. Its methods may be called from multiple goroutines, but a run is
// inherently sequential: each call completes its state transition before the next is accepted.
type Runner struct {
	rc        RunnerContext
	presenter Presenter
	reporter  report.Reporter
	events    EventLogger
	host      hostwindow.Controller
	resync    hostwindow.ResyncStrategy
	barrier   hostwindow.Barrier
	debug     *framework.CapturingLogger

	state   State
	queue   []behavior.Resolved
	index   int
	matrix  *results.Matrix
	results []results.BehaviorResult
	hostURI string
	window  hostwindow.Document
	report  *report.SuiteReport
	lock    sync.Mutex
}

// New creates a Runner in the Idle state.
func New(rc RunnerContext, opts Options) *Runner {
	r := &Runner{
		rc:        rc,
		presenter: opts.Presenter,
		reporter:  opts.Reporter,
		events:    opts.Events,
		host:      opts.Host,
		resync:    opts.Resync,
		barrier:   opts.Barrier,
		debug:     framework.NewCapturingLogger(opts.Logger),
	}
	if r.presenter == nil {
		r.presenter = nullPresenter{}
	}
	if r.events == nil {
		r.events = nullEventLogger{}
	}
	if r.resync == nil {
		r.resync = hostwindow.InjectSetup{}
	}
	return r
}

// RegisterBehavior expands spec against the run's AT and appends the resulting behaviors to the
// queue. It can only be called before the run begins.
func (r *Runner) RegisterBehavior(spec behavior.Spec) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.state != StateIdle {
		return ErrRunStarted
	}
	resolved := behavior.ExpandOne(spec, r.rc.AT, r.rc.Commands)
	if len(resolved) < len(spec.Modes) {
		r.debug.Printf("%s has no commands for task %q in some of the modes %v", r.rc.AT, spec.Task, spec.Modes)
	}
	for _, b := range resolved {
		if r.rc.Filter != nil && !r.rc.Filter(b.ID()) {
			r.events.BehaviorSkipped(b.ID(), "excluded by filter parameters")
			continue
		}
		r.queue = append(r.queue, b)
	}
	return nil
}

// BeginRun starts the run. hostSurfaceURI is the page the host window shows when it is opened.
// An empty queue finishes the run immediately with an empty, passing report.
func (r *Runner) BeginRun(ctx context.Context, hostSurfaceURI string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.state != StateIdle {
		return ErrRunStarted
	}
	r.hostURI = hostSurfaceURI
	if len(r.rc.Warnings) > 0 {
		r.presenter.RenderWarnings(append([]string(nil), r.rc.Warnings...))
	}
	if len(r.queue) == 0 {
		return r.finish(ctx)
	}
	r.index = 0
	r.present(ctx)
	return nil
}

// State returns the current state and, while a run is in progress, the index of the current
// behavior.
func (r *Runner) State() (State, int) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.state, r.index
}

// Queue returns the resolved behaviors of the run, in presentation order.
func (r *Runner) Queue() []behavior.Resolved {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]behavior.Resolved(nil), r.queue...)
}

// Matrix returns the live result matrix of the behavior awaiting submission, or nil if there is
// none. The tester's input is recorded in it directly.
func (r *Runner) Matrix() *results.Matrix {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.state != StateAwaitingSubmission {
		return nil
	}
	return r.matrix
}

// Report returns the suite report once the run is finished.
func (r *Runner) Report() (report.SuiteReport, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.report == nil {
		return report.SuiteReport{}, false
	}
	return *r.report, true
}

// Submit tries to accept the current behavior's results. If the matrix is incomplete, the
// runner stays on the same behavior, asks the presenter to focus the first missing control, and
// returns the validation failures. Otherwise the results are frozen and the run advances.
//
// The returned error is only for misuse, such as submitting when nothing is awaiting
// submission, or for a failure of the Reporter at the end of the run.
func (r *Runner) Submit(ctx context.Context) ([]results.ValidationFailure, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.state != StateAwaitingSubmission {
		return nil, ErrNotAwaitingSubmission
	}
	b := r.queue[r.index]
	result, failures := r.matrix.Freeze()
	if len(failures) > 0 {
		r.debug.Printf("Submission for %s rejected: %s", b.ID(), failures[0])
		r.events.ValidationFailed(b, failures)
		r.presenter.FocusControl(failures[0])
		return failures, nil
	}

	r.results = append(r.results, result)
	r.events.BehaviorSubmitted(result, r.debug.Reset())
	r.matrix = nil

	r.index++
	if r.index < len(r.queue) {
		r.present(ctx)
		return nil, nil
	}
	return nil, r.finish(ctx)
}

// Abandon ends the run without producing a report, releasing the host window if it is open.
func (r *Runner) Abandon(ctx context.Context) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.state == StateFinished {
		return
	}
	r.state = StateFinished
	r.matrix = nil
	r.releaseWindow(ctx)
}

func (r *Runner) present(ctx context.Context) {
	b := r.queue[r.index]
	r.state = StatePresenting
	r.matrix = results.NewMatrix(b)
	r.events.BehaviorStarted(r.index, len(r.queue), b)

	if r.window != nil && b.HasSetup() {
		if err := r.resync.Resync(ctx, r.window, r.barrier, b.SetupHostWindow); err != nil {
			r.hostWindowFailed(ctx, fmt.Errorf("preparing host window for %s: %w", b.ID(), err))
		}
	}

	r.presenter.RenderInstructions(InstructionsView{
		Index:            r.index,
		Total:            len(r.queue),
		AT:               r.rc.AT,
		ModeInstructions: r.rc.Commands.ModeInstructions(b.Mode, r.rc.AT),
		Behavior:         b,
	})
	r.presenter.SetHostWindowControl(r.host != nil && r.window == nil)
	r.presenter.RenderResultForm(FormView{
		Title:    r.rc.Title,
		Behavior: b,
		Matrix:   r.matrix,
	})
	r.state = StateAwaitingSubmission
}

func (r *Runner) finish(ctx context.Context) error {
	rep := report.Build(r.rc.Title, r.results)
	r.report = &rep
	r.state = StateFinished
	r.releaseWindow(ctx)
	r.events.RunFinished(rep)
	r.presenter.RenderFinalReport(rep)
	if r.reporter != nil {
		if err := r.reporter.Report(rep); err != nil {
			return fmt.Errorf("reporting results: %w", err)
		}
	}
	return nil
}
