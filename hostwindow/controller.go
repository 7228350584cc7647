// Package hostwindow manages the secondary window in which the tester exercises the page under
// test. The harness never renders that page itself; it asks a Controller to open it, waits for
// it to finish loading, and runs each behavior's setup against it.
package hostwindow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/launchdarkly/aria-at-harness/hostdef"
)

const (
	DefaultReadyTimeout      = time.Second * 10
	DefaultReadyPollInterval = time.Millisecond * 100
)

var (
	// ErrNotReady means the document did not finish loading within the readiness timeout. The
	// tester can reopen the window and try again.
	ErrNotReady = errors.New("host window did not become ready")

	// ErrClosed means the window is no longer open, usually because the tester closed it.
	ErrClosed = errors.New("host window is closed")
)

// Controller opens host windows.
type Controller interface {
	Open(ctx context.Context, uri string) (Document, error)
}

// Document is an open host window.
type Document interface {
	URI() string
	ReadyState(ctx context.Context) (string, error)
	RunScript(ctx context.Context, script string) error
	Reload(ctx context.Context) error
	Close(ctx context.Context) error

	// Closed is closed when the window goes away, whether the harness closed it or the tester did.
	Closed() <-chan struct{}
}

// SetupFunc puts a host window's document into the state a behavior needs, for instance by
// moving focus to the element under test.
type SetupFunc func(ctx context.Context, doc Document) error

// Barrier waits for a document to report that it has finished loading.
type Barrier struct {
	Timeout  time.Duration
	Interval time.Duration
}

// Await polls the document's ready state until it is complete. It gives up with ErrNotReady
// after the timeout, with ErrClosed if the window goes away, or with the context's error.
func (b Barrier) Await(ctx context.Context, doc Document) error {
	timeout, interval := b.Timeout, b.Interval
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	if interval <= 0 {
		interval = DefaultReadyPollInterval
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastState := ""
	for {
		state, err := doc.ReadyState(ctx)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return err
			}
			lastState = err.Error()
		} else {
			if state == hostdef.ReadyStateComplete {
				return nil
			}
			lastState = state
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-doc.Closed():
			return ErrClosed
		case <-deadline.C:
			return fmt.Errorf("%w: %s was still %q after %s", ErrNotReady, doc.URI(), lastState, timeout)
		case <-ticker.C:
		}
	}
}
