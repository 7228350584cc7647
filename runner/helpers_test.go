package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/launchdarkly/aria-at-harness/hostdef"
	"github.com/launchdarkly/aria-at-harness/hostwindow"
	"github.com/launchdarkly/aria-at-harness/report"
	"github.com/launchdarkly/aria-at-harness/results"
)

type fakeCommandTable map[string][]string

func (f fakeCommandTable) Commands(mode, task, at string) []string {
	return f[at+"|"+task+"|"+mode]
}

func (f fakeCommandTable) ModeInstructions(mode, at string) string {
	return "put " + at + " in " + mode + " mode"
}

type recordingPresenter struct {
	warnings     [][]string
	instructions []InstructionsView
	forms        []FormView
	focused      []results.ValidationFailure
	controls     []bool
	errors       []error
	finalReports []report.SuiteReport
	lock         sync.Mutex
}

func (p *recordingPresenter) RenderWarnings(w []string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.warnings = append(p.warnings, w)
}

func (p *recordingPresenter) RenderInstructions(v InstructionsView) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.instructions = append(p.instructions, v)
}

func (p *recordingPresenter) RenderResultForm(v FormView) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.forms = append(p.forms, v)
}

func (p *recordingPresenter) FocusControl(f results.ValidationFailure) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.focused = append(p.focused, f)
}

func (p *recordingPresenter) SetHostWindowControl(enabled bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.controls = append(p.controls, enabled)
}

func (p *recordingPresenter) RenderError(err error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.errors = append(p.errors, err)
}

func (p *recordingPresenter) RenderFinalReport(r report.SuiteReport) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.finalReports = append(p.finalReports, r)
}

func (p *recordingPresenter) lastControl() (bool, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if len(p.controls) == 0 {
		return false, false
	}
	return p.controls[len(p.controls)-1], true
}

type recordingReporter struct {
	reports []report.SuiteReport
	err     error
}

func (r *recordingReporter) Report(s report.SuiteReport) error {
	r.reports = append(r.reports, s)
	return r.err
}

// fakeDocument is an in-memory host window. It becomes ready after readyAfter polls.
type fakeDocument struct {
	uri        string
	readyAfter int
	polls      int
	scripts    []string
	reloads    int
	closeCalls int
	closed     chan struct{}
	closeOnce  sync.Once
	lock       sync.Mutex
}

func (d *fakeDocument) URI() string { return d.uri }

func (d *fakeDocument) ReadyState(ctx context.Context) (string, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	select {
	case <-d.closed:
		return "", hostwindow.ErrClosed
	default:
	}
	d.polls++
	if d.readyAfter >= 0 && d.polls > d.readyAfter {
		return hostdef.ReadyStateComplete, nil
	}
	return hostdef.ReadyStateLoading, nil
}

func (d *fakeDocument) RunScript(ctx context.Context, script string) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.scripts = append(d.scripts, script)
	return nil
}

func (d *fakeDocument) Reload(ctx context.Context) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.reloads++
	d.polls = 0
	return nil
}

func (d *fakeDocument) Close(ctx context.Context) error {
	d.lock.Lock()
	d.closeCalls++
	d.lock.Unlock()
	d.closeByUser()
	return nil
}

func (d *fakeDocument) closeByUser() {
	d.closeOnce.Do(func() { close(d.closed) })
}

func (d *fakeDocument) Closed() <-chan struct{} { return d.closed }

func (d *fakeDocument) getScripts() []string {
	d.lock.Lock()
	defer d.lock.Unlock()
	return append([]string(nil), d.scripts...)
}

func (d *fakeDocument) getCloseCalls() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.closeCalls
}

type fakeController struct {
	readyAfter int
	openErr    error
	docs       []*fakeDocument
}

func (c *fakeController) Open(ctx context.Context, uri string) (hostwindow.Document, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	d := &fakeDocument{uri: uri, readyAfter: c.readyAfter, closed: make(chan struct{})}
	c.docs = append(c.docs, d)
	return d, nil
}

var errBrokenReporter = errors.New("disk full")

var testBarrier = hostwindow.Barrier{Timeout: time.Millisecond * 200, Interval: time.Millisecond * 2}

func scriptSetup(script string) hostwindow.SetupFunc {
	return func(ctx context.Context, doc hostwindow.Document) error {
		return doc.RunScript(ctx, script)
	}
}
