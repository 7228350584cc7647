package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/launchdarkly/aria-at-harness/hostwindow"
)

// OpenHostWindow opens the host window at the run's host surface URI and prepares it for the
// current behavior. Only one host window can be open at a time.
//
// If the window does not become ready in time, the error is reported to the presenter, the
// window is released and the open control is enabled again so that the tester can retry. The
// run itself is not affected.
func (r *Runner) OpenHostWindow(ctx context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.state != StatePresenting && r.state != StateAwaitingSubmission {
		return ErrRunNotInProgress
	}
	if r.host == nil {
		return ErrNoHostWindow
	}
	if r.window != nil {
		return ErrHostWindowAlreadyOpen
	}

	r.presenter.SetHostWindowControl(false)
	doc, err := r.host.Open(ctx, r.hostURI)
	if err != nil {
		err = fmt.Errorf("opening host window: %w", err)
		r.presenter.RenderError(err)
		r.presenter.SetHostWindowControl(true)
		return err
	}
	r.window = doc
	r.events.HostWindowEvent(fmt.Sprintf("opened %s", doc.URI()))
	go r.watchWindow(doc)

	b := r.queue[r.index]
	if err := hostwindow.RunSetup(ctx, doc, r.barrier, b.SetupHostWindow); err != nil {
		err = fmt.Errorf("preparing host window for %s: %w", b.ID(), err)
		r.hostWindowFailed(ctx, err)
		return err
	}
	return nil
}

// HostWindowOpen is true while the host window is open.
func (r *Runner) HostWindowOpen() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.window != nil
}

func (r *Runner) watchWindow(doc hostwindow.Document) {
	<-doc.Closed()

	r.lock.Lock()
	defer r.lock.Unlock()
	if r.window != doc {
		return // already released by the runner
	}
	r.window = nil
	r.events.HostWindowEvent("closed by the tester")
	if r.state != StateFinished {
		r.presenter.SetHostWindowControl(true)
	}
}

// hostWindowFailed releases a window that could not be prepared, so that reopening it is the
// way to retry.
func (r *Runner) hostWindowFailed(ctx context.Context, err error) {
	r.debug.Printf("%s", err)
	r.presenter.RenderError(err)
	if errors.Is(err, hostwindow.ErrClosed) {
		r.window = nil
	} else {
		r.releaseWindow(ctx)
	}
	r.presenter.SetHostWindowControl(true)
}

func (r *Runner) releaseWindow(ctx context.Context) {
	if r.window == nil {
		return
	}
	doc := r.window
	r.window = nil
	if err := doc.Close(ctx); err != nil {
		r.debug.Printf("Error closing host window: %s", err)
	}
	r.events.HostWindowEvent("released")
}
